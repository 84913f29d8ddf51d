// Package alerts prints the short status lines that follow a sync report on a
// terminal: one line per aborted group, per group with failed users, and a
// closing summary.
package alerts

import (
	"fmt"
	"io"
	"strings"
)

// Alert is one status line with optional indented details.
type Alert struct {
	Level   Level
	Message string
	Details []string
	Err     error
}

// New creates a new alert with the given level and message.
func New(level Level, message string) *Alert {
	return &Alert{Level: level, Message: message}
}

// NewError creates a new error alert.
func NewError(message string) *Alert {
	return New(LevelError, message)
}

// NewWarning creates a new warning alert.
func NewWarning(message string) *Alert {
	return New(LevelWarning, message)
}

// NewSuccess creates a new success alert.
func NewSuccess(message string) *Alert {
	return New(LevelSuccess, message)
}

// WithError adds an underlying error to the alert.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails adds additional context details to the alert.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String returns the single-line form without details.
func (a *Alert) String() string {
	message := a.Level.Icon() + " " + a.Message
	if a.Err != nil {
		message += fmt.Sprintf(": %v", a.Err)
	}
	return message
}

// Writer writes alerts to a terminal.
type Writer struct {
	w        io.Writer
	useColor bool
}

// NewWriter creates a Writer. Colors are only emitted when useColor is set.
func NewWriter(w io.Writer, useColor bool) *Writer {
	return &Writer{w: w, useColor: useColor}
}

// Write prints one alert and its details.
func (w *Writer) Write(alert *Alert) error {
	line := alert.String()
	if w.useColor {
		line = alert.Level.Color() + line + resetColor
	}

	var b strings.Builder
	b.WriteString(line)
	b.WriteByte('\n')
	for _, detail := range alert.Details {
		b.WriteString("   ")
		b.WriteString(detail)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w.w, b.String())
	return err
}

// WriteAll prints every alert in order, stopping at the first write error.
func (w *Writer) WriteAll(alerts []*Alert) error {
	for _, a := range alerts {
		if err := w.Write(a); err != nil {
			return err
		}
	}
	return nil
}
