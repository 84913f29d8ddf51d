package constants_test

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/agentstation/rostersync/pkg/constants"
)

// Example demonstrates the file modes used for written artifacts.
func Example() {
	fmt.Printf("Created dir with %o permissions\n", constants.DirPermissions)
	fmt.Printf("Created file with %o permissions\n", constants.FilePermissions)
	// Output:
	// Created dir with 755 permissions
	// Created file with 644 permissions
}

// Example_timeouts demonstrates timeout constants
func Example_timeouts() {
	client := &http.Client{
		Timeout: constants.DefaultHTTPTimeout,
	}
	fmt.Printf("HTTP timeout: %v\n", client.Timeout)
	fmt.Printf("Token margin: %v\n", constants.TokenExpiryMargin)
	// Output:
	// HTTP timeout: 30s
	// Token margin: 1m0s
}

// Example_concurrencyLimits shows how a requested concurrency is clamped.
func Example_concurrencyLimits() {
	requested := 100
	if requested > constants.MaxConcurrency {
		requested = constants.MaxConcurrency
	}
	fmt.Printf("Processing with %d workers\n", requested)
	// Output: Processing with 32 workers
}

// Example_envPrefix shows the environment prefix derived from the app name.
func Example_envPrefix() {
	fmt.Println(strings.ToUpper(constants.AppName) + "_OPENPATH_ORG_ID")
	// Output: ROSTERSYNC_OPENPATH_ORG_ID
}
