package alerts

import "fmt"

// Level represents the severity of an alert.
type Level int

const (
	// LevelError marks an aborted group.
	LevelError Level = iota
	// LevelWarning marks a group that finished with failed users.
	LevelWarning
	// LevelInfo marks neutral notices such as a dry run.
	LevelInfo
	// LevelSuccess marks a clean run.
	LevelSuccess
)

const resetColor = "\033[0m"

// String returns the string representation of the alert level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

// Icon returns the status symbol printed before the message.
func (l Level) Icon() string {
	switch l {
	case LevelError:
		return "✗"
	case LevelWarning:
		return "!"
	case LevelInfo:
		return "i"
	case LevelSuccess:
		return "✓"
	default:
		return "?"
	}
}

// Color returns ANSI color codes for terminal output.
func (l Level) Color() string {
	switch l {
	case LevelError:
		return "\033[31m"
	case LevelWarning:
		return "\033[33m"
	case LevelInfo:
		return "\033[36m"
	case LevelSuccess:
		return "\033[32m"
	default:
		return resetColor
	}
}
