package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Logger writes leveled, color-prefixed diagnostics for a single command run.
type Logger struct {
	Verbose bool
	Debug   bool
}

var (
	infoPrefix  = color.New(color.FgGreen).SprintFunc()
	debugPrefix = color.New(color.FgCyan).SprintFunc()
	warnPrefix  = color.New(color.FgYellow).SprintFunc()
	errorPrefix = color.New(color.FgRed).SprintFunc()
)

// emit resolves the writer at call time so redirected stdout and stderr are honoured.
func emit(w io.Writer, prefix, msg string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", prefix, fmt.Sprintf(msg, args...))
}

func (l Logger) Infof(msg string, args ...any) {
	if l.Verbose || l.Debug {
		emit(os.Stdout, infoPrefix("[info]"), msg, args...)
	}
}

func (l Logger) Debugf(msg string, args ...any) {
	if l.Debug {
		emit(os.Stdout, debugPrefix("[debug]"), msg, args...)
	}
}

func (l Logger) Warnf(msg string, args ...any) {
	if l.Verbose || l.Debug {
		l.WarnfAlways(msg, args...)
	}
}

// WarnfAlways prints a warning regardless of verbosity.
func (l Logger) WarnfAlways(msg string, args ...any) {
	emit(os.Stderr, warnPrefix("[warn]"), msg, args...)
}

func (l Logger) Errorf(msg string, args ...any) {
	if l.Debug {
		emit(os.Stderr, errorPrefix("[error]"), msg, args...)
	}
}

// ErrorfAndReturn logs the message like Errorf and returns it as an error.
func (l Logger) ErrorfAndReturn(msg string, args ...any) error {
	l.Errorf(msg, args...)
	return fmt.Errorf(msg, args...)
}
