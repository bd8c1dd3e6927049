package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"filmlog/internal/fileutil"
	"filmlog/internal/logging"
)

// Format is the surface syntax of a saved archive.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Extension returns the file extension written for the format.
func (f Format) Extension() string {
	if f == FormatYAML {
		return ".yml"
	}
	return ".json"
}

// ParseFormat maps a configuration value to a Format.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown archive format %q", value)
	}
}

// FormatForPath picks the output format from a destination extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ResolvePath appends the default format's extension when path has none.
func ResolvePath(path string, def Format) string {
	if filepath.Ext(path) != "" {
		return path
	}
	return path + def.Extension()
}

// record field names in the file.
const (
	keyTitle   = "Title"
	keyDay     = "Day"
	keyMonth   = "Month"
	keyYear    = "Year"
	keyTheater = "Theater?"
)

// recordDoc is the JSON form of a record; field order is the file order.
type recordDoc struct {
	Title   string `json:"Title"`
	Day     int    `json:"Day"`
	Month   int    `json:"Month"`
	Year    int    `json:"Year"`
	Theater string `json:"Theater?"`
}

func docFromRecord(rec Record) recordDoc {
	return recordDoc{
		Title:   rec.Title,
		Day:     rec.Day,
		Month:   rec.Month,
		Year:    rec.Year,
		Theater: theaterFlag(rec.SeenInTheater),
	}
}

// recordFromNode reads a record mapping field by field. Unknown keys are
// ignored; a missing or unreadable field is left at its zero value, so a
// malformed record still loads and is caught by validation if re-staged.
func recordFromNode(n *yaml.Node) Record {
	var rec Record
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], resolveAlias(n.Content[i+1])
		if value.Kind != yaml.ScalarNode || value.Tag == "!!null" {
			continue
		}
		switch key.Value {
		case keyTitle:
			rec.Title = value.Value
		case keyDay:
			rec.Day = scalarInt(value)
		case keyMonth:
			rec.Month = scalarInt(value)
		case keyYear:
			rec.Year = scalarInt(value)
		case keyTheater:
			rec.SeenInTheater = parseTheaterFlag(strings.TrimSpace(value.Value))
		}
	}
	return rec
}

// scalarInt accepts 5 and "5" alike; anything else reads as 0.
func scalarInt(n *yaml.Node) int {
	v, err := strconv.Atoi(strings.TrimSpace(n.Value))
	if err != nil {
		return 0
	}
	return v
}

// Codec reads and writes archive documents.
type Codec struct {
	logger        *slog.Logger
	defaultFormat Format
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithDefaultFormat sets the format used for destinations without an extension.
func WithDefaultFormat(f Format) CodecOption {
	return func(c *Codec) {
		if f != "" {
			c.defaultFormat = f
		}
	}
}

// NewCodec creates a codec. A nil logger discards output.
func NewCodec(logger *slog.Logger, opts ...CodecOption) *Codec {
	c := &Codec{
		logger:        logging.NewComponentLogger(logger, "archive"),
		defaultFormat: FormatJSON,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Decode parses a YAML or JSON document into a new Archive. An empty
// document yields an empty archive.
func (c *Codec) Decode(r io.Reader) (*Archive, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return New(), nil
		}
		return nil, &CodecError{Op: "decode", Err: err}
	}

	root := resolveAlias(&doc)
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return New(), nil
		}
		root = resolveAlias(root.Content[0])
	}
	if root.Kind != yaml.MappingNode {
		return nil, &CodecError{Op: "decode", Err: fmt.Errorf("%w at top level, found %s", ErrNotMapping, nodeKind(root))}
	}

	a := New()
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], resolveAlias(root.Content[i+1])
		if keyNode.Kind != yaml.ScalarNode {
			return nil, &CodecError{Op: "decode", Err: fmt.Errorf("line %d: identifier must be a scalar", keyNode.Line)}
		}
		id := keyNode.Value
		if valueNode.Kind != yaml.MappingNode {
			return nil, &CodecError{Op: "decode", Err: fmt.Errorf("%w for record %q, found %s", ErrNotMapping, id, nodeKind(valueNode))}
		}
		if err := a.insert(id, recordFromNode(valueNode)); err != nil {
			return nil, &CodecError{Op: "decode", Err: err}
		}
	}
	return a, nil
}

// Encode writes the archive to w in the given format, preserving commit order.
func (c *Codec) Encode(w io.Writer, a *Archive, format Format) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatYAML:
		data, err = encodeYAML(a)
	default:
		data, err = encodeJSON(a)
	}
	if err != nil {
		return &CodecError{Op: "encode", Err: err}
	}
	if _, err := w.Write(data); err != nil {
		return &CodecError{Op: "encode", Err: err}
	}
	return nil
}

// LoadFile reads the archive stored at path.
func (c *Codec) LoadFile(path string) (*Archive, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &CodecError{Op: "load", Path: path, Err: err}
	}
	defer file.Close()

	a, err := c.Decode(file)
	if err != nil {
		var codecErr *CodecError
		if errors.As(err, &codecErr) {
			codecErr.Op = "load"
			codecErr.Path = path
		}
		return nil, err
	}
	c.logger.Debug("archive loaded",
		logging.String(logging.FieldEventType, "archive_loaded"),
		logging.String("path", path),
		logging.Int("entry_count", a.Size()))
	return a, nil
}

// SaveFile writes the archive to path, choosing the format from the
// extension, and returns the path actually written. The write holds the
// path's lock file and replaces the target atomically, so a failed save
// leaves the previous file intact.
func (c *Codec) SaveFile(ctx context.Context, a *Archive, path string) (string, error) {
	path = ResolvePath(path, c.defaultFormat)
	format := FormatForPath(path)

	var buf bytes.Buffer
	if err := c.Encode(&buf, a, format); err != nil {
		var codecErr *CodecError
		if errors.As(err, &codecErr) {
			codecErr.Op = "save"
			codecErr.Path = path
		}
		return path, err
	}

	if err := fileutil.WithLock(ctx, path, func() error {
		return fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
	}); err != nil {
		return path, &CodecError{Op: "save", Path: path, Err: err}
	}

	c.logger.Info("archive saved",
		logging.String(logging.FieldEventType, "archive_saved"),
		logging.String("path", path),
		logging.String("format", string(format)),
		logging.Int("entry_count", a.Size()))
	return path, nil
}

func encodeJSON(a *Archive) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, entry := range a.All() {
		if i > 0 {
			compact.WriteByte(',')
		}
		key, err := marshalJSON(entry.ID)
		if err != nil {
			return nil, err
		}
		value, err := marshalJSON(docFromRecord(entry.Record))
		if err != nil {
			return nil, fmt.Errorf("record %q: %w", entry.ID, err)
		}
		compact.Write(key)
		compact.WriteByte(':')
		compact.Write(value)
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func encodeYAML(a *Archive) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, entry := range a.All() {
		root.Content = append(root.Content, strNode(entry.ID, yaml.DoubleQuotedStyle), recordNode(entry.Record))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func recordNode(rec Record) *yaml.Node {
	// Theater? is quoted so YAML 1.1 readers do not turn y/n into booleans.
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			strNode(keyTitle, 0), strNode(rec.Title, 0),
			strNode(keyDay, 0), intNode(rec.Day),
			strNode(keyMonth, 0), intNode(rec.Month),
			strNode(keyYear, 0), intNode(rec.Year),
			strNode(keyTheater, 0), strNode(theaterFlag(rec.SeenInTheater), yaml.DoubleQuotedStyle),
		},
	}
}

func strNode(value string, style yaml.Style) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: style}
}

func intNode(value int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(value)}
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func nodeKind(n *yaml.Node) string {
	if n == nil {
		return "nothing"
	}
	switch n.Kind {
	case yaml.SequenceNode:
		return "a list"
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return "null"
		}
		return "a scalar"
	case yaml.MappingNode:
		return "a mapping"
	default:
		return "an unsupported node"
	}
}
