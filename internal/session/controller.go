package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"filmlog/internal/archive"
	"filmlog/internal/logging"
	"filmlog/internal/metadata"
	"filmlog/internal/verification"
)

// ErrNotVerified is returned by Commit when the staged title has not passed
// verification.
var ErrNotVerified = errors.New("staged title has not been verified")

// Fields are the staged, not yet validated, values of a record. Date parts are
// the text the user entered.
type Fields struct {
	Title         string
	Day           string
	Month         string
	Year          string
	SeenInTheater bool
}

// Controller is owned by a single shell and is not safe for concurrent use.
type Controller struct {
	gate      *verification.Gate
	validator *archive.Validator
	codec     *archive.Codec
	observer  Observer
	logger    *slog.Logger

	archive *archive.Archive
	staged  Fields
}

// Option configures a Controller.
type Option func(*Controller)

// WithValidator overrides the record validator.
func WithValidator(v *archive.Validator) Option {
	return func(c *Controller) {
		if v != nil {
			c.validator = v
		}
	}
}

// WithCodec overrides the archive codec.
func WithCodec(codec *archive.Codec) Option {
	return func(c *Controller) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// WithObserver registers the shell's observer.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithArchive starts the session from an existing archive.
func WithArchive(a *archive.Archive) Option {
	return func(c *Controller) {
		if a != nil {
			c.archive = a
		}
	}
}

// NewController creates a controller with an empty archive and nothing staged.
func NewController(gate *verification.Gate, opts ...Option) *Controller {
	c := &Controller{
		gate:      gate,
		validator: archive.NewValidator(),
		observer:  NopObserver{},
		archive:   archive.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "session")
	if c.codec == nil {
		c.codec = archive.NewCodec(c.logger)
	}
	return c
}

// Stage replaces the staged fields. A title that differs from the previous
// one invalidates any earlier verification.
func (c *Controller) Stage(fields Fields) {
	titleChanged := fields.Title != c.staged.Title
	c.staged = fields
	if titleChanged && c.gate.State() == verification.Verified {
		c.gate.Reset()
		c.logger.Debug("staged title changed; verification reset",
			logging.String(logging.FieldEventType, "verification_reset"),
			logging.String("title", fields.Title))
		c.observer.VerificationChanged(verification.Unverified, nil)
	}
}

// Staged returns the current staged fields.
func (c *Controller) Staged() Fields {
	return c.staged
}

// VerificationState returns the gate state for the staged title.
func (c *Controller) VerificationState() verification.State {
	return c.gate.State()
}

// Verify checks the staged title against the metadata lookup and returns
// the matched snapshot. Errors match verification.ErrNotFound when the title
// is unknown.
func (c *Controller) Verify(ctx context.Context) (metadata.Snapshot, error) {
	snap, err := c.gate.RequestVerification(ctx, c.staged.Title)
	if err != nil {
		c.observer.VerificationChanged(verification.Unverified, nil)
		return metadata.Snapshot{}, err
	}
	c.observer.VerificationChanged(verification.Verified, &snap)
	return snap, nil
}

// Commit validates the staged fields and appends them to the archive. It
// fails with ErrNotVerified before any successful verification and with an
// archive.ErrValidation error for malformed fields; in both cases the staged
// fields and the archive are unchanged. On success the staged fields are
// cleared and verification is reset.
func (c *Controller) Commit() (string, error) {
	if !c.gate.MayCommit(c.staged.Title) {
		return "", fmt.Errorf("commit %q: %w", c.staged.Title, ErrNotVerified)
	}
	valid, err := c.validator.Validate(c.staged.Title, c.staged.Day, c.staged.Month, c.staged.Year)
	if err != nil {
		return "", fmt.Errorf("commit %q: %w", c.staged.Title, err)
	}

	rec := valid.Record(c.staged.SeenInTheater)
	id := c.archive.Commit(rec)
	c.logger.Info("record committed",
		logging.String(logging.FieldEventType, "record_committed"),
		logging.String("id", id),
		logging.String("title", rec.Title),
		logging.Int("archive_size", c.archive.Size()))

	c.staged = Fields{}
	c.gate.Reset()
	c.observer.Committed(id, rec)
	c.observer.VerificationChanged(verification.Unverified, nil)
	return id, nil
}

// Archive returns the session archive.
func (c *Controller) Archive() *archive.Archive {
	return c.archive
}

// LoadArchive replaces the session archive with the one stored at path. On
// failure the current archive is kept.
func (c *Controller) LoadArchive(path string) error {
	loaded, err := c.codec.LoadFile(path)
	if err != nil {
		return err
	}
	c.archive = loaded
	return nil
}

// SaveArchive writes the session archive to path and returns the path
// written, which gains the default extension when path has none.
func (c *Controller) SaveArchive(ctx context.Context, path string) (string, error) {
	return c.codec.SaveFile(ctx, c.archive, path)
}
