package options

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// LogOptions sends diagnostics to a file. The terminal belongs to the
// editor, so nothing is logged unless a file is given.
type LogOptions struct {
	File  string
	Level string
}

func AddLogArgs(cmd *cobra.Command, o *LogOptions) {
	cmd.Flags().StringVar(&o.File, "log", "",
		"Write logs to this file.")
	cmd.Flags().StringVar(&o.Level, "log-level", "info",
		"Log level. One of 'debug', 'info', 'warn' or 'error'.")
}

// Logger opens the log file. The returned close func is never nil.
func (o *LogOptions) Logger() (*slog.Logger, func() error, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(o.Level))); err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q", o.Level)
	}
	if o.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}
	f, err := os.OpenFile(o.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f.Close, nil
}
