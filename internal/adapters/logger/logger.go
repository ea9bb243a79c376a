package logger

import (
	"io"
	"log"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
)

// StdLogger writes leveled lines through a stdlib log.Logger.
// Debug lines are dropped unless debug is enabled.
type StdLogger struct {
	out   *log.Logger
	debug bool
}

var _ domain.Logger = (*StdLogger)(nil)

func New(w io.Writer, debug bool) *StdLogger {
	return &StdLogger{
		out:   log.New(w, "sessiontrack ", log.LstdFlags),
		debug: debug,
	}
}

func (l *StdLogger) Debug(message string) {
	if l.debug {
		l.out.Print("DEBUG " + message)
	}
}

func (l *StdLogger) Info(message string) {
	l.out.Print("INFO " + message)
}

func (l *StdLogger) Error(message string) {
	l.out.Print("ERROR " + message)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string) {}
func (Nop) Info(string)  {}
func (Nop) Error(string) {}
