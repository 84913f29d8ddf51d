// Package constants provides shared constants used throughout rostersync.
// This includes timeouts, limits, file permissions and the default column
// names of the roster report.
package constants

import "time"

// AppName is used for the config file name and the env var prefix.
const AppName = "rostersync"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the directory and record system
	DefaultHTTPTimeout = 30 * time.Second

	// TokenExpiryMargin is the minimum remaining lifetime accepted for a freshly issued token
	TokenExpiryMargin = 1 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// DefaultConcurrency is the default number of concurrent per-user directory calls
	DefaultConcurrency = 4

	// MaxConcurrency caps per-user concurrency to stay inside directory rate limits
	MaxConcurrency = 32

	// DefaultGroupConcurrency processes groups one at a time
	DefaultGroupConcurrency = 1

	// DefaultPageSize is the page size used when listing directory users
	DefaultPageSize = 1000
)

// Default roster report column names
const (
	ColumnKey         = "USERNAME"
	ColumnSecondaryID = "ID_NUMBER"
	ColumnFirstName   = "FIRST_NAME"
	ColumnLastName    = "LAST_NAME"
)
