// Package log defines the logger engine.
// The unique feature is that it can create a child logger derived from the parent logger.
// Each logger defines a unique color style for the message outputs.
//
// Create a child logger for every component that the command starts:
// the http server, the pinning gateway, the deployer.
package log

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/gamut"
)

// WithTimestamp is passed to New to print the time of each message.
const WithTimestamp = true

// Logger is the wrapper over the logger and keeps the style.
// The style is generated randomly.
type Logger struct {
	logger log.Logger
	style  LoggerStyle
}

// LoggerStyle defines the various colors for each log parts.
type LoggerStyle struct {
	prefix    lipgloss.Style
	separator lipgloss.Style
}

func randomStyle() (LoggerStyle, error) {
	rawPalette, err := gamut.Generate(2, gamut.PastelGenerator{})
	if err != nil {
		return LoggerStyle{}, fmt.Errorf("gamut.Generate: %w", err)
	}
	palette := make([]lipgloss.Color, len(rawPalette))
	for i, color := range rawPalette {
		lighter := gamut.Lighter(color, 0.05)
		palette[i] = lipgloss.Color(gamut.ToHex(lighter))
	}

	// transparent background
	backgroundColor := lipgloss.Color("49m")

	style := LoggerStyle{}

	style.prefix = lipgloss.NewStyle().
		Bold(true).
		Faint(true).
		Background(backgroundColor).
		Foreground(palette[0])

	style.separator = lipgloss.NewStyle().
		Faint(true).
		Background(backgroundColor).
		Foreground(palette[1])

	return style, nil
}

func (style LoggerStyle) setPrimary() {
	log.PrefixStyle = style.prefix
	log.SeparatorStyle = style.separator
}

// New logger with the prefix and optional timestamp.
// It generates the random color style.
func New(prefix string, timestamp bool) (*Logger, error) {
	style, err := randomStyle()
	if err != nil {
		return nil, fmt.Errorf("randomStyle: %w", err)
	}

	logger := log.New()
	logger.SetPrefix(prefix)
	logger.SetReportCaller(false)
	logger.SetReportTimestamp(timestamp)

	return &Logger{
		logger: logger,
		style:  style,
	}, nil
}

// Prefix of the logger, including the parent prefixes
func (logger *Logger) Prefix() string {
	return logger.logger.GetPrefix()
}

// Debug prints the message for developers
func (logger *Logger) Debug(title string, kv ...interface{}) {
	logger.style.setPrimary()
	logger.logger.Debug(title, kv...)
}

// Info prints the information
func (logger *Logger) Info(title string, kv ...interface{}) {
	logger.style.setPrimary()
	logger.logger.Info(title, kv...)
}

// Warn prints the warning message
func (logger *Logger) Warn(title string, kv ...interface{}) {
	logger.style.setPrimary()
	logger.logger.Warn(title, kv...)
}

// Error prints the error message
func (logger *Logger) Error(title string, kv ...interface{}) {
	logger.style.setPrimary()
	logger.logger.Error(title, kv...)
}

// Fatal prints the error message and then calls the os.Exit()
func (logger *Logger) Fatal(title string, kv ...interface{}) {
	logger.style.setPrimary()
	logger.logger.Fatal(title, kv...)
}

// Child logger from the parent.
// The child keeps the parent's style and key-values,
// its prefix is appended to the parent's prefix.
//
// For example:
//
//	parent, _ := log.New("main", false)
//	server := parent.Child("server")
//	gateway := server.Child("pinning", "endpoint", "https://api.web3.storage")
//
//	parent.Info("starting", "port", 5001)
//	gateway.Info("pinned", "cid", "bafy...")
//
//	// prints the following
//	// INFO main: starting port=5001
//	// INFO main/server/pinning: pinned endpoint=https://api.web3.storage cid=bafy...
func (logger *Logger) Child(prefix string, kv ...interface{}) *Logger {
	child := logger.logger.With(kv...)
	child.SetPrefix(logger.logger.GetPrefix() + "/" + prefix)

	return &Logger{
		logger: child,
		style:  logger.style,
	}
}
