package status

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"schoolctl/internal/session"
	"schoolctl/internal/store"
	"schoolctl/utils/output"
)

type Dependencies struct {
	Cookies   store.CookieStore
	Evaluator *session.Evaluator
}

var jsonFlag bool

func NewStatusCommand(deps Dependencies) *cobra.Command {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored session's state",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := deps.Cookies.Load()
			if err != nil {
				if jsonFlag {
					return output.FailJSON(cmd, err)
				}
				return err
			}
			verdict := deps.Evaluator.Evaluate(set)

			if jsonFlag {
				return output.JSON(cmd.OutOrStdout(), verdict)
			}

			if !verdict.Authenticated {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in. Run `schoolctl auth` to start a session.")
				return nil
			}

			validity := "expired"
			if verdict.Valid {
				validity = fmt.Sprintf("valid for %s", (time.Duration(verdict.ExpiresIn) * time.Second).String())
			}
			fmt.Fprintf(cmd.OutOrStdout(), `Session Details:
---------------------------------
School     : %s (%s)
Session    : %s
Last seen  : %s
---------------------------------
`, verdict.SchoolName, verdict.SchoolID, validity, verdict.LastActivity.Format(time.RFC1123))
			return nil
		},
	}

	statusCmd.Flags().BoolVar(&jsonFlag, "json", false, "Output as JSON")
	return statusCmd
}
