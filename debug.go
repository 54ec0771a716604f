package tether

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// logger is the package logger. Stores created without a logger use it.
var logger = newDefaultLogger()

func newDefaultLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "tether",
		Level:  log.WarnLevel,
	})
}

// SetLogger replaces the package logger. Passing nil restores the default,
// which writes warnings and errors to stderr.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = newDefaultLogger()
	}
	logger = l
}

// Logger returns the package logger.
func Logger() *log.Logger { return logger }

// Logger returns the logger the store reports to.
func (s *Store) Logger() *log.Logger { return s.log }

// SetDebugMode enables tracing of every dispatched event and consistency
// checks on the record arena. Invariant violations panic in debug mode.
func (s *Store) SetDebugMode(enabled bool) {
	s.debug = enabled
	if enabled {
		s.log.SetLevel(log.DebugLevel)
	}
}

// debugTrace logs an event at debug level.
func (s *Store) debugTrace(ev Event) {
	if !s.debug {
		return
	}
	s.log.Debug("dispatch", "type", ev.Type, "id", ev.ID, "state", s.State(ev.ID))
}

// debugCheckRecord panics when a record breaks the ownership rules.
func (s *Store) debugCheckRecord(id string) {
	if !s.debug {
		return
	}
	rec, ok := s.records[id]
	if !ok {
		return
	}
	if rec.refs < 0 {
		panic(fmt.Sprintf("tether debug: record %q has negative share count %d", id, rec.refs))
	}
	if rec.persisted && rec.refs == 0 {
		panic(fmt.Sprintf("tether debug: persisted record %q holds no share", id))
	}
	if rec.src.detached {
		panic(fmt.Sprintf("tether debug: detached record %q still in the arena", id))
	}
}
