package fetch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"schoolctl/internal/client"
	"schoolctl/internal/store"
	"schoolctl/utils/output"
)

type Dependencies struct {
	Fetcher client.Fetcher
	Config  store.ConfigStore
}

var (
	schoolFlag     string
	timeoutFlag    time.Duration
	noRedirectFlag bool
	outputFlag     string
	jsonFlag       bool
)

func NewFetchCommand(deps Dependencies) *cobra.Command {
	fetchCmd := &cobra.Command{
		Use:   "fetch <path>",
		Short: "Request a portal page with the stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runFetch(cmd, deps, args[0])
			if err != nil && jsonFlag {
				return output.FailJSON(cmd, err)
			}
			return err
		},
	}

	fetchCmd.Flags().StringVarP(&schoolFlag, "school", "s", "", "School id to request against")
	fetchCmd.Flags().DurationVar(&timeoutFlag, "timeout", client.DefaultTimeout, "Request timeout")
	fetchCmd.Flags().BoolVar(&noRedirectFlag, "no-redirect", false, "Do not follow redirects")
	fetchCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the body to a file in this directory")
	fetchCmd.Flags().BoolVar(&jsonFlag, "json", false, "Output the full result as JSON")

	return fetchCmd
}

func runFetch(cmd *cobra.Command, deps Dependencies, path string) error {
	result, err := deps.Fetcher.Fetch(cmd.Context(), path, client.FetchOptions{
		SchoolID:   schoolFlag,
		NoRedirect: noRedirectFlag,
		Timeout:    timeoutFlag,
	})
	if err != nil {
		return err
	}

	if jsonFlag {
		return output.JSON(cmd.OutOrStdout(), result)
	}

	outDir := outputFlag
	if outDir == "" {
		if cfg, err := deps.Config.Load(); err == nil {
			outDir = cfg.OutputDir
		}
	}
	if outDir != "" {
		target := filepath.Join(outDir, fileNameFor(path))
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(target, []byte(result.Body), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (status %d)\n", target, result.Status)
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), result.Body)
	return nil
}

// fileNameFor derives an output file name from the requested path.
func fileNameFor(path string) string {
	name := filepath.Base(strings.TrimRight(path, "/"))
	if name == "" || name == "." || name == "/" {
		return "output.html"
	}
	if idx := strings.IndexAny(name, "?#"); idx >= 0 {
		name = name[:idx]
	}
	if name == "" {
		return "output.html"
	}
	return name
}
