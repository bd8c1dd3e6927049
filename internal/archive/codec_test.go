package archive

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func alienArchive() *Archive {
	a := New()
	a.Commit(Record{Title: "Alien", Day: 5, Month: 6, Year: 1979, SeenInTheater: true})
	return a
}

func TestSaveLoadRoundTrip(t *testing.T) {
	codec := NewCodec(nil)
	for _, name := range []string{"log.json", "log.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			written, err := codec.SaveFile(context.Background(), alienArchive(), path)
			if err != nil {
				t.Fatalf("SaveFile: %v", err)
			}
			if written != path {
				t.Fatalf("written path = %q, want %q", written, path)
			}

			loaded, err := codec.LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			if loaded.Size() != 1 {
				t.Fatalf("size = %d, want 1", loaded.Size())
			}
			rec, ok := loaded.Get("1")
			want := Record{Title: "Alien", Day: 5, Month: 6, Year: 1979, SeenInTheater: true}
			if !ok || rec != want {
				t.Fatalf("Get(1) = %+v, %v; want %+v", rec, ok, want)
			}
		})
	}
}

func TestEncodeJSONLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCodec(nil).Encode(&buf, alienArchive(), FormatJSON); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `{
  "1": {
    "Title": "Alien",
    "Day": 5,
    "Month": 6,
    "Year": 1979,
    "Theater?": "y"
  }
}
`
	if buf.String() != want {
		t.Fatalf("unexpected JSON:\n%s", buf.String())
	}
}

func TestEncodeYAMLQuotesTheaterFlag(t *testing.T) {
	a := New()
	a.Commit(Record{Title: "Ran", Day: 1, Month: 2, Year: 1985})

	var buf bytes.Buffer
	if err := NewCodec(nil).Encode(&buf, a, FormatYAML); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `Theater?: "n"`) {
		t.Fatalf("theater flag not quoted:\n%s", out)
	}
	if !strings.HasPrefix(out, `"1":`) {
		t.Fatalf("identifier not quoted:\n%s", out)
	}
}

func TestEncodePreservesCommitOrder(t *testing.T) {
	a := New()
	if err := a.insert("10", Record{Title: "Ten"}); err != nil {
		t.Fatal(err)
	}
	if err := a.insert("2", Record{Title: "Two"}); err != nil {
		t.Fatal(err)
	}

	codec := NewCodec(nil)
	var buf bytes.Buffer
	if err := codec.Encode(&buf, a, FormatJSON); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Index(buf.String(), `"10"`) > strings.Index(buf.String(), `"2"`) {
		t.Fatalf("order not preserved:\n%s", buf.String())
	}

	loaded, err := codec.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	entries := loaded.All()
	if entries[0].ID != "10" || entries[1].ID != "2" {
		t.Fatalf("decoded order = %q, %q", entries[0].ID, entries[1].ID)
	}
}

func TestDecodeRejectsNonMappingDocuments(t *testing.T) {
	cases := map[string]string{
		"list":          "- Alien\n- Heat\n",
		"scalar":        "Alien\n",
		"json list":     `[{"Title": "Alien"}]`,
		"null":          "null\n",
		"record scalar": `{"1": "Alien"}`,
		"malformed":     `{"1": {"Title": "Alien"`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewCodec(nil).Decode(strings.NewReader(doc))
			if !errors.Is(err, ErrCodec) {
				t.Fatalf("expected ErrCodec, got %v", err)
			}
		})
	}
}

func TestDecodeToleratesMissingFields(t *testing.T) {
	a, err := NewCodec(nil).Decode(strings.NewReader(`{"7": {"Title": "Heat"}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	rec, ok := a.Get("7")
	if !ok || rec.Title != "Heat" || rec.Day != 0 || rec.SeenInTheater {
		t.Fatalf("Get(7) = %+v, %v", rec, ok)
	}
}

func TestDecodeToleratesMalformedFields(t *testing.T) {
	doc := `{
  "1": {"Title": "Alien", "Day": "5", "Month": " 6 ", "Year": 1979, "Theater?": true},
  "2": {"Title": ["Heat"], "Day": "five", "Month": 12.5, "Year": null, "Extra": 1}
}`
	a, err := NewCodec(nil).Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if a.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", a.Size())
	}
	if rec, _ := a.Get("1"); rec != (Record{Title: "Alien", Day: 5, Month: 6, Year: 1979, SeenInTheater: true}) {
		t.Fatalf("Get(1) = %+v", rec)
	}
	if rec, _ := a.Get("2"); rec != (Record{}) {
		t.Fatalf("Get(2) = %+v, want zero record", rec)
	}
	if id := a.Commit(Record{Title: "Brazil"}); id != "3" {
		t.Fatalf("next id = %q, want 3", id)
	}
}

func TestDecodeAcceptsPlainYAML(t *testing.T) {
	doc := "1:\n  Title: Brazil\n  Day: 20\n  Month: 2\n  Year: 1985\n  Theater?: y\n"
	a, err := NewCodec(nil).Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	rec, ok := a.Get("1")
	if !ok || rec.Title != "Brazil" || !rec.SeenInTheater {
		t.Fatalf("Get(1) = %+v, %v", rec, ok)
	}
}

func TestDecodeEmptyDocument(t *testing.T) {
	a, err := NewCodec(nil).Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if a.Size() != 0 {
		t.Fatalf("size = %d, want 0", a.Size())
	}
}

func TestLoadFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	_, err := NewCodec(nil).LoadFile(path)
	if !errors.Is(err, ErrCodec) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected codec not-exist error, got %v", err)
	}
	var codecErr *CodecError
	if !errors.As(err, &codecErr) || codecErr.Path != path {
		t.Fatalf("expected path in error, got %v", err)
	}
}

func TestSaveFileAddsDefaultExtension(t *testing.T) {
	dir := t.TempDir()
	codec := NewCodec(nil, WithDefaultFormat(FormatYAML))
	written, err := codec.SaveFile(context.Background(), alienArchive(), filepath.Join(dir, "log"))
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	if filepath.Ext(written) != ".yml" {
		t.Fatalf("written = %q, want .yml extension", written)
	}
	if _, err := os.Stat(written); err != nil {
		t.Fatalf("stat: %v", err)
	}
}

func TestSaveFileFailureLeavesArchiveUsable(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "taken.json")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	a := alienArchive()
	if _, err := NewCodec(nil).SaveFile(context.Background(), a, target); !errors.Is(err, ErrCodec) {
		t.Fatalf("expected ErrCodec, got %v", err)
	}
	if a.Size() != 1 {
		t.Fatalf("size = %d, want 1", a.Size())
	}
}

func TestFormatHelpers(t *testing.T) {
	if FormatForPath("a.YAML") != FormatYAML || FormatForPath("a.yml") != FormatYAML || FormatForPath("a.txt") != FormatJSON {
		t.Fatal("unexpected FormatForPath result")
	}
	if ResolvePath("log", FormatJSON) != "log.json" || ResolvePath("log.yml", FormatJSON) != "log.yml" {
		t.Fatal("unexpected ResolvePath result")
	}
	if f, err := ParseFormat("yml"); err != nil || f != FormatYAML {
		t.Fatalf("ParseFormat(yml) = %q, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for xml")
	}
}
