package shared

import (
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// SetupLogger configures a stderr logger at the given level ("debug", "info",
// "warn" or "error").
func SetupLogger(level string, noColor bool) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	if noColor {
		DisableColor(logger)
	}
	return logger, nil
}

// DebugLevel maps a --debug flag to a level name
func DebugLevel(debug bool) string {
	if debug {
		return "debug"
	}
	return "info"
}

// DisableColor forces plain output for the logger and for lipgloss rendering
func DisableColor(logger *log.Logger) {
	lipgloss.SetColorProfile(termenv.Ascii)
	if logger != nil {
		logger.SetColorProfile(termenv.Ascii)
	}
}
