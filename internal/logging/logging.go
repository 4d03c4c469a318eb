// Package logging builds the structured loggers used across tickworks.
package logging

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var levelColors = map[log.Level]lipgloss.Color{
	log.DebugLevel: lipgloss.Color("63"),
	log.InfoLevel:  lipgloss.Color("86"),
	log.WarnLevel:  lipgloss.Color("192"),
	log.ErrorLevel: lipgloss.Color("204"),
}

// New returns a logger writing to w at the named level
// ("debug", "info", "warn" or "error").
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: "tickworks",
	})

	styles := log.DefaultStyles()
	for l, c := range levelColors {
		styles.Levels[l] = lipgloss.NewStyle().
			SetString(levelLabel(l)).
			Bold(true).
			Foreground(c)
	}
	styles.Keys["tick"] = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	logger.SetStyles(styles)
	return logger, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

func levelLabel(l log.Level) string {
	switch l {
	case log.DebugLevel:
		return "DEBU"
	case log.InfoLevel:
		return "INFO"
	case log.WarnLevel:
		return "WARN"
	default:
		return "ERRO"
	}
}
