package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	clientAuth "schoolctl/internal/auth"
	"schoolctl/internal/schools"
	"schoolctl/internal/session"
	"schoolctl/internal/store"
	"schoolctl/models"
	"schoolctl/utils/output"
	promptutils "schoolctl/utils/prompt"
)

type Dependencies struct {
	Driver    clientAuth.Authenticator
	Directory schools.Directory
	Cookies   store.CookieStore
	Config    store.ConfigStore
	Prompter  promptutils.Prompter
	Evaluator *session.Evaluator
}

var (
	schoolFlag  string
	browserFlag string
	timeoutFlag time.Duration
	jsonFlag    bool
)

func NewAuthCommands(deps Dependencies) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in to the portal through a browser",
		Long: "Opens the school's login page in a real browser window and waits for the " +
			"login to complete. Credentials and any second factor are entered in the " +
			"browser itself; the captured session is stored locally.",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runLogin(cmd, deps)
			if err != nil && jsonFlag {
				return output.FailJSON(cmd, err)
			}
			return err
		},
	}

	authCmd.Flags().StringVarP(&schoolFlag, "school", "s", "", "School id to log in to")
	authCmd.Flags().StringVar(&browserFlag, "browser", "", "Path to the browser executable")
	authCmd.Flags().DurationVar(&timeoutFlag, "timeout", clientAuth.DefaultTimeout, "How long to wait for the login to complete")
	authCmd.Flags().BoolVar(&jsonFlag, "json", false, "Output as JSON")

	authCmd.AddCommand(logoutCmd(deps))

	return authCmd
}

func runLogin(cmd *cobra.Command, deps Dependencies) error {
	ctx := cmd.Context()

	cfg, err := deps.Config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	school, err := resolveSchool(cmd, deps, cfg)
	if err != nil {
		return err
	}

	browserPath := browserFlag
	if browserPath == "" {
		browserPath = cfg.BrowserPath
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Opening the login page for %s; finish logging in in the browser window.\n", school.Name)

	result := deps.Driver.Authenticate(ctx, school.ID, clientAuth.Options{
		BrowserPath: browserPath,
		Timeout:     timeoutFlag,
	})
	if result.Err != nil {
		return result.Err
	}

	if err := deps.Cookies.Save(school.ID, school.Name, result.Cookies); err != nil {
		return fmt.Errorf("failed to store the session: %w", err)
	}

	cfg.School = &models.SchoolRef{ID: school.ID, Name: school.Name}
	if err := deps.Config.Save(cfg); err != nil {
		return fmt.Errorf("failed to remember the school: %w", err)
	}

	set, err := deps.Cookies.Load()
	if err != nil {
		return err
	}
	verdict := deps.Evaluator.Evaluate(set)

	if jsonFlag {
		return output.JSON(cmd.OutOrStdout(), verdict)
	}
	if verdict.Valid {
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s. Session valid for %s.\n",
			school.Name, (time.Duration(verdict.ExpiresIn) * time.Second).String())
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s.\n", school.Name)
	}
	return nil
}

// resolveSchool picks the school to authenticate against: the --school
// flag, else the remembered school, else an interactive choice from the
// directory.
func resolveSchool(cmd *cobra.Command, deps Dependencies, cfg *models.Config) (*models.School, error) {
	ctx := cmd.Context()

	if schoolFlag != "" {
		if list, err := deps.Directory.Fetch(ctx, false); err == nil {
			if school := schools.FindByID(list, schoolFlag); school != nil {
				return school, nil
			}
		}
		// Not in the directory; take the id at face value.
		return &models.School{ID: schoolFlag, Name: schoolFlag}, nil
	}

	if cfg.School != nil && cfg.School.ID != "" {
		return &models.School{ID: cfg.School.ID, Name: cfg.School.Name}, nil
	}

	list, err := deps.Directory.Fetch(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch the school directory: %w", err)
	}
	school, err := deps.Prompter.SelectSchool(list)
	if err != nil {
		if errors.Is(err, promptutils.ErrInterrupted) {
			return nil, promptutils.ErrInterrupted
		}
		return nil, err
	}
	return school, nil
}

func logoutCmd(deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Cookies.Clear(); err != nil {
				return fmt.Errorf("failed to clear the session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}
