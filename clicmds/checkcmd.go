package clicmds

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gitlab.com/navguard/guard"
	"gitlab.com/navguard/guard/analysis"
	"gitlab.com/navguard/guard/prompt"
	"gitlab.com/navguard/navguard"
	"gitlab.com/navguard/store"
)

// CheckFlags for the check command
func CheckFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "datadir",
			Usage: "data directory",
			Value: "navguardtmp",
		},
		&cli.StringFlag{
			Name:  "url",
			Usage: "url to run through the decision engine",
			Value: "",
		},
	}
}

// Check runs a single destination through the full engine with prompts on
// the terminal. Useful to verify the backend configuration end to end
// without a browser.
func Check(cliCtx *cli.Context) error {
	rawURL := cliCtx.String("url")
	if rawURL == "" && cliCtx.Args().Len() > 0 {
		rawURL = cliCtx.Args().First()
	}
	if rawURL == "" {
		return fmt.Errorf("no url provided")
	}

	configStore := store.NewConfigStore(cliCtx.String("datadir") + "/config")
	if err := configStore.Init(); err != nil {
		log.Error().Err(err).Msg("failed to init config store")
		return err
	}
	defer configStore.Close()

	events := guard.NewDefaultLogSink()
	cache := guard.NewDecisionCache(events)
	client := analysis.NewClient(configStore, events)
	client.OnConfigChange(cache.InvalidateAll)
	engine := guard.NewDecisionEngine(cache, client, prompt.NewTerminalPrompter(os.Stdin, os.Stdout), events)

	attempt := navguard.NewNavigationAttempt(rawURL)
	outcome := engine.Decide(context.Background(), attempt)
	fmt.Printf("\n%s -> %s\n", rawURL, outcome)
	return nil
}
