// Package persist stores the pinned-tip list of a tether.Store.
//
// Backends are selected by DSN:
//   - file:tips.yaml, file:tips.json: a single YAML or JSON document
//   - sqlite:tips.db: a SQLite table (pure Go driver, no cgo)
//   - redis://host:6379/0: one JSON value under a key
//   - mongodb://host:27017/db: one document per tip
//   - mem: an in-process list, for tests and demos
//
// # Usage
//
//	b, err := persist.Open(ctx, "sqlite:tips.db")
//	if err != nil {
//	    return err
//	}
//	defer b.Close()
//
//	if err := persist.Restore(ctx, store, b); err != nil {
//	    return err
//	}
//	persist.Autosave(ctx, store, b, nil)
package persist

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/phanxgames/tether"
)

// Sentinel errors for persistence operations.
var (
	// ErrNotFound is returned by Load when nothing has been saved yet.
	ErrNotFound = errors.New("not found")

	// ErrUnsupported is returned by Open for an unknown DSN scheme.
	ErrUnsupported = errors.New("unsupported dsn")
)

// Backend loads and saves a complete stored-tips list.
type Backend interface {
	// Load returns the saved list in save order.
	Load(ctx context.Context) ([]tether.StoredTip, error)
	// Save replaces the saved list.
	Save(ctx context.Context, tips []tether.StoredTip) error
	Close() error
}

// Open connects to the backend named by dsn.
func Open(ctx context.Context, dsn string) (Backend, error) {
	scheme, rest, ok := strings.Cut(dsn, ":")
	if !ok {
		return nil, fmt.Errorf("open %q: %w", dsn, ErrUnsupported)
	}
	switch scheme {
	case "file":
		return NewFile(rest)
	case "sqlite":
		return OpenSQLite(rest)
	case "redis", "rediss":
		return OpenRedis(ctx, dsn)
	case "mongodb", "mongodb+srv":
		return OpenMongo(ctx, dsn)
	case "mem":
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("open %q: %w", dsn, ErrUnsupported)
}

// Restore loads the saved list and applies it to s. An empty backend
// leaves s untouched.
func Restore(ctx context.Context, s *tether.Store, b Backend) error {
	tips, err := b.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	s.ReconcilePersisted(tips, s.StoredTips())
	return nil
}

// Autosave saves every stored-tips change of s to b. Save failures are
// logged to l, or the tether logger when l is nil. Remove the returned
// handle to stop saving.
func Autosave(ctx context.Context, s *tether.Store, b Backend, l *log.Logger) tether.CallbackHandle {
	if l == nil {
		l = tether.Logger()
	}
	return s.OnTipChange(func(tips []tether.StoredTip) {
		if err := b.Save(ctx, tips); err != nil {
			l.Error("save stored tips", "count", len(tips), "err", err)
			return
		}
		l.Debug("stored tips saved", "count", len(tips))
	})
}

// Document is the serialized form of a stored-tips list.
type Document struct {
	Version int                `json:"version" yaml:"version"`
	Tips    []tether.StoredTip `json:"tips" yaml:"tips"`
}

// DocumentVersion is written into every Document.
const DocumentVersion = 1

func newDocument(tips []tether.StoredTip) Document {
	if tips == nil {
		tips = []tether.StoredTip{}
	}
	return Document{Version: DocumentVersion, Tips: tips}
}

func (d Document) check() error {
	if d.Version > DocumentVersion {
		return fmt.Errorf("document version %d is newer than %d: %w", d.Version, DocumentVersion, ErrUnsupported)
	}
	return nil
}

// FormatOf picks the document encoding, "yaml" or "json", from a file
// extension.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml", nil
	case ".json":
		return "json", nil
	}
	return "", fmt.Errorf("file %q: extension must be .yaml, .yml or .json: %w", path, ErrUnsupported)
}
