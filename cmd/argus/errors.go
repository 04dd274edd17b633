package main

import (
	"fmt"
	"os"
)

// FatalError writes an error message to stderr and exits with code 1.
// Use this for fatal errors that prevent the command from completing:
// input validation failures, critical preconditions not met, unrecoverable
// system errors.
//
// Example:
//
//	if err := rc.WriteFile(path); err != nil {
//	    FatalError("%v", err)
//	}
func FatalError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// FatalErrorWithHint writes an error message with a hint to stderr and exits.
// Use this when you can provide an actionable suggestion to fix the error.
//
// Example:
//
//	FatalErrorWithHint("missing project token", "Run 'argus init' to create a config file")
func FatalErrorWithHint(message, hint string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	os.Exit(1)
}

// WarnError writes a warning message to stderr and returns.
// Use this for optional operations that enhance functionality but aren't
// required: diagnostics files, telemetry, cleanup.
//
// Example:
//
//	if err := rc.WriteFile(diagnosticsFile); err != nil {
//	    WarnError("failed to write diagnostics: %v", err)
//	}
func WarnError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}
