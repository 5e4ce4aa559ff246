package clicmds

import (
	"context"
	"io/ioutil"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pelletier/go-toml"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gitlab.com/navguard/guard"
	"gitlab.com/navguard/guard/analysis"
	"gitlab.com/navguard/guard/browser"
	"gitlab.com/navguard/navguard"
	"gitlab.com/navguard/store"
)

// GuardFlags for the guard command
func GuardFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "toml config to use",
			Value: "",
		},
		&cli.StringFlag{
			Name:  "datadir",
			Usage: "data directory",
			Value: "navguardtmp",
		},
		&cli.StringFlag{
			Name:  "chrome",
			Usage: "path to the chrome/chromium binary, empty for platform default",
			Value: "",
		},
		&cli.StringFlag{
			Name:  "attach",
			Usage: "attach to a running chrome debug port (host:port) instead of launching",
			Value: "",
		},
		&cli.StringFlag{
			Name:  "url",
			Usage: "url to open once guarding",
			Value: "",
		},
		&cli.StringSliceFlag{
			Name:  "trust",
			Usage: "hostnames to allow without checking",
		},
		&cli.StringSliceFlag{
			Name:  "block",
			Usage: "hostnames to always suppress",
		},
	}
}

// Guard launches (or attaches to) a browser and intercepts navigations
// until interrupted
func Guard(cliCtx *cli.Context) error {
	cfg, err := guardConfig(cliCtx)
	if err != nil {
		return err
	}

	configStore := store.NewConfigStore(cfg.DataPath + "/config")
	if err := configStore.Init(); err != nil {
		log.Error().Err(err).Msg("failed to init config store")
		return err
	}
	defer configStore.Close()

	journal := store.NewEventJournal(cfg.DataPath + "/events")
	if err := journal.Init(); err != nil {
		log.Error().Err(err).Msg("failed to init event journal")
		return err
	}
	defer journal.Close()

	events := guard.MultiSink{guard.NewDefaultLogSink(), guard.NewJournalSink(journal)}
	cache := guard.NewDecisionCache(events)
	client := analysis.NewClient(configStore, events)
	client.OnConfigChange(cache.InvalidateAll)
	scope := guard.NewScopeService(cfg.TrustedHosts, cfg.BlockedHosts)

	b, err := openBrowser(cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	target, err := b.FirstTab()
	if err != nil {
		return err
	}

	tab := browser.NewTab(target, scope, events)
	defer tab.Close()
	engine := guard.NewDecisionEngine(cache, client, browser.NewPagePrompter(tab), events)
	tab.SetEngine(engine)

	if cfg.StartURL != "" {
		if err := tab.Navigate(cfg.StartURL); err != nil {
			log.Warn().Err(err).Str("url", cfg.StartURL).Msg("failed to open start url")
		}
	}

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info().Msg("Ctrl-C pressed, shutting down")
		cancel()
	}()

	log.Info().Msg("guarding navigations")
	if err := tab.Guard(runCtx); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("guard loop ended")
		return err
	}
	return nil
}

func guardConfig(cliCtx *cli.Context) (*navguard.GuardConfig, error) {
	cfg := &navguard.GuardConfig{}

	if cliCtx.String("config") != "" {
		data, err := ioutil.ReadFile(cliCtx.String("config"))
		if err != nil {
			return nil, err
		}
		if err := toml.NewDecoder(strings.NewReader(string(data))).Decode(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.DataPath == "" {
		cfg.DataPath = cliCtx.String("datadir")
	}
	if cfg.ChromePath == "" {
		cfg.ChromePath = cliCtx.String("chrome")
	}
	if cfg.StartURL == "" {
		cfg.StartURL = cliCtx.String("url")
	}
	if attach := cliCtx.String("attach"); attach != "" {
		parts := strings.SplitN(attach, ":", 2)
		cfg.DebugHost = parts[0]
		if len(parts) == 2 {
			cfg.DebugPort = parts[1]
		}
	}
	cfg.TrustedHosts = append(cfg.TrustedHosts, cliCtx.StringSlice("trust")...)
	cfg.BlockedHosts = append(cfg.BlockedHosts, cliCtx.StringSlice("block")...)
	return cfg, nil
}

func openBrowser(cfg *navguard.GuardConfig) (*browser.Browser, error) {
	if cfg.DebugPort != "" {
		host := cfg.DebugHost
		if host == "" {
			host = "localhost"
		}
		return browser.Connect(host, cfg.DebugPort)
	}
	return browser.Launch(cfg.ChromePath)
}
