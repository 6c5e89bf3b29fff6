package configcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"schoolctl/internal/store"
	"schoolctl/models"
	"schoolctl/utils/output"
)

type Dependencies struct {
	Config store.ConfigStore
}

var (
	setSchoolFlag  string
	setBrowserFlag string
	setOutputFlag  string
	jsonFlag       bool
)

func NewConfigCommand(deps Dependencies) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the CLI configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runConfig(cmd, deps)
			if err != nil && jsonFlag {
				return output.FailJSON(cmd, err)
			}
			return err
		},
	}

	configCmd.Flags().StringVar(&setSchoolFlag, "set-school", "", "Default school id")
	configCmd.Flags().StringVar(&setBrowserFlag, "set-browser", "", "Browser executable for the login flow")
	configCmd.Flags().StringVar(&setOutputFlag, "set-output", "", "Default directory for fetched pages")
	configCmd.Flags().BoolVar(&jsonFlag, "json", false, "Output as JSON")

	return configCmd
}

func runConfig(cmd *cobra.Command, deps Dependencies) error {
	cfg, err := deps.Config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	changed := false
	if setSchoolFlag != "" {
		cfg.School = &models.SchoolRef{ID: setSchoolFlag}
		changed = true
	}
	if setBrowserFlag != "" {
		cfg.BrowserPath = setBrowserFlag
		changed = true
	}
	if setOutputFlag != "" {
		cfg.OutputDir = setOutputFlag
		changed = true
	}
	if changed {
		if err := deps.Config.Save(cfg); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
	}

	if jsonFlag {
		return output.JSON(cmd.OutOrStdout(), cfg)
	}

	school := "(none)"
	if cfg.School != nil {
		school = cfg.School.ID
		if cfg.School.Name != "" {
			school = fmt.Sprintf("%s (%s)", cfg.School.Name, cfg.School.ID)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "School  : %s\n", school)
	fmt.Fprintf(cmd.OutOrStdout(), "Browser : %s\n", orNone(cfg.BrowserPath))
	fmt.Fprintf(cmd.OutOrStdout(), "Output  : %s\n", orNone(cfg.OutputDir))
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
