package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func writeCommandError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())

	if hint := errorHint(err); hint != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Hint: "+hint)
	}

	return err
}

func errorHint(err error) string {
	switch {
	case isSchemaError(err):
		return "This looks like a schema mismatch. Remove the database at storage.path and try again."
	case strings.Contains(err.Error(), "relay_url"):
		return "Pass --relay ws://host:port/mesh or set transport.relay_url in the config file."
	case strings.Contains(err.Error(), "unknown theme"):
		return "Use --theme dark or --theme light."
	}
	return ""
}

// isSchemaError checks if an error is a SQLite schema mismatch.
func isSchemaError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "no such table") ||
		strings.Contains(msg, "has no column")
}
