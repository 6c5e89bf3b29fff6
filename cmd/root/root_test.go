package root

import (
	"bytes"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolctl/internal/session"
	mock_schoolctl "schoolctl/tests/mock"
)

func newTestDeps(ctrl *gomock.Controller) Dependencies {
	return Dependencies{
		Cookies:   mock_schoolctl.NewMockCookieStore(ctrl),
		Cache:     mock_schoolctl.NewMockCacheStore(ctrl),
		Config:    mock_schoolctl.NewMockConfigStore(ctrl),
		Directory: mock_schoolctl.NewMockDirectory(ctrl),
		Fetcher:   mock_schoolctl.NewMockFetcher(ctrl),
		Driver:    mock_schoolctl.NewMockAuthenticator(ctrl),
		Prompter:  mock_schoolctl.NewMockPrompter(ctrl),
		Evaluator: session.NewEvaluator(),
	}
}

func TestRootHasAllSubcommands(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rootCmd := NewRootCmd(newTestDeps(ctrl))

	got := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		got[sub.Name()] = true
	}
	for _, name := range []string{"auth", "fetch", "schools", "config", "status"} {
		assert.True(t, got[name], "missing subcommand %s", name)
	}
}

func TestRootWithoutArgsShowsHelp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rootCmd := NewRootCmd(newTestDeps(ctrl))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
}
