package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// newLogger builds the command logger. Terminals get charm's colored
// handler; anything else gets plain slog text lines.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		handler := log.NewWithOptions(w, log.Options{
			Prefix: "vtool",
			Level:  log.Level(level),
		})
		return slog.New(handler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
