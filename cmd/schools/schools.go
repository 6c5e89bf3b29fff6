package schools

import (
	"fmt"

	"github.com/spf13/cobra"

	clientSchools "schoolctl/internal/schools"
	"schoolctl/internal/store"
	"schoolctl/utils/output"
)

type Dependencies struct {
	Directory clientSchools.Directory
	Cache     store.CacheStore
}

var (
	refreshFlag bool
	jsonFlag    bool
)

func NewSchoolsCommands(deps Dependencies) *cobra.Command {
	schoolsCmd := &cobra.Command{
		Use:   "schools [query]",
		Short: "List or search the school directory",
		Long: "Lists all schools known to the portal. With a query the list is narrowed " +
			"by fuzzy matching on name and id. The directory is cached locally for a week.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runList(cmd, deps, args)
			if err != nil && jsonFlag {
				return output.FailJSON(cmd, err)
			}
			return err
		},
	}

	schoolsCmd.Flags().BoolVarP(&refreshFlag, "refresh", "r", false, "Refetch the directory even if the cache is fresh")
	schoolsCmd.Flags().BoolVar(&jsonFlag, "json", false, "Output as JSON")

	schoolsCmd.AddCommand(clearCmd(deps))

	return schoolsCmd
}

func runList(cmd *cobra.Command, deps Dependencies, args []string) error {
	list, err := deps.Directory.Fetch(cmd.Context(), refreshFlag)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		list = clientSchools.Search(list, args[0])
	}

	if jsonFlag {
		return output.JSON(cmd.OutOrStdout(), list)
	}

	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No schools matched.")
		return nil
	}
	for _, school := range list {
		fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", school.ID, school.Name)
	}
	return nil
}

func clearCmd(deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop the cached school directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Cache.Clear(); err != nil {
				return fmt.Errorf("failed to clear the schools cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schools cache cleared.")
			return nil
		},
	}
}
