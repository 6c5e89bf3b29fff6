// Package output handles the CLI's machine-readable output mode.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// JSON writes v as indented JSON.
func JSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// FailJSON emits a structured error object on stderr and returns the
// error for the non-zero exit. The plain-text error printer is silenced
// so the failure appears exactly once.
func FailJSON(cmd *cobra.Command, err error) error {
	cmd.SilenceErrors = true
	_ = JSON(cmd.ErrOrStderr(), map[string]string{"error": err.Error()})
	return err
}
