package root

import (
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	cmdAuth "schoolctl/cmd/auth"
	cmdConfig "schoolctl/cmd/configcmd"
	cmdFetch "schoolctl/cmd/fetch"
	cmdSchools "schoolctl/cmd/schools"
	cmdStatus "schoolctl/cmd/status"
	clientAuth "schoolctl/internal/auth"
	"schoolctl/internal/browser"
	"schoolctl/internal/client"
	clientSchools "schoolctl/internal/schools"
	"schoolctl/internal/session"
	"schoolctl/internal/store"
	promptutils "schoolctl/utils/prompt"
)

// Dependencies is everything the subcommands need. Execute builds the
// real set; tests substitute pieces.
type Dependencies struct {
	Cookies   store.CookieStore
	Cache     store.CacheStore
	Config    store.ConfigStore
	Directory clientSchools.Directory
	Fetcher   client.Fetcher
	Driver    clientAuth.Authenticator
	Prompter  promptutils.Prompter
	Evaluator *session.Evaluator
}

var verbose bool

func NewRootCmd(deps Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "schoolctl",
		Short: "CLI for the SchoolSoft portal",
		Long:  "A command line tool that logs in to the SchoolSoft portal through a real browser and issues authenticated requests with the captured session.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SilenceUsage = true
			level := zerolog.WarnLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(cmdAuth.NewAuthCommands(cmdAuth.Dependencies{
		Driver:    deps.Driver,
		Directory: deps.Directory,
		Cookies:   deps.Cookies,
		Config:    deps.Config,
		Prompter:  deps.Prompter,
		Evaluator: deps.Evaluator,
	}))
	rootCmd.AddCommand(cmdStatus.NewStatusCommand(cmdStatus.Dependencies{
		Cookies:   deps.Cookies,
		Evaluator: deps.Evaluator,
	}))
	rootCmd.AddCommand(cmdFetch.NewFetchCommand(cmdFetch.Dependencies{
		Fetcher: deps.Fetcher,
		Config:  deps.Config,
	}))
	rootCmd.AddCommand(cmdSchools.NewSchoolsCommands(cmdSchools.Dependencies{
		Directory: deps.Directory,
		Cache:     deps.Cache,
	}))
	rootCmd.AddCommand(cmdConfig.NewConfigCommand(cmdConfig.Dependencies{
		Config: deps.Config,
	}))

	return rootCmd
}

// Execute wires the real dependencies and runs the CLI.
func Execute() error {
	fileStore, err := store.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}

	cookieStore := store.NewCookieStore(fileStore)
	cacheStore := store.NewCacheStore(fileStore)
	configStore := store.NewConfigStore(fileStore)
	httpClient := &http.Client{}

	deps := Dependencies{
		Cookies:   cookieStore,
		Cache:     cacheStore,
		Config:    configStore,
		Directory: clientSchools.NewDirectory(httpClient, cacheStore),
		Fetcher:   client.NewFetcher(httpClient, cookieStore, configStore),
		Driver:    clientAuth.NewLoginDriver(browser.NewChromeLauncher(), browser.NewResolver()),
		Prompter:  promptutils.NewPrompt(),
		Evaluator: session.NewEvaluator(),
	}

	return NewRootCmd(deps).Execute()
}
