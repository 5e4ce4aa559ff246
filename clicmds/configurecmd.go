package clicmds

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gitlab.com/navguard/guard/analysis"
	"gitlab.com/navguard/navguard"
	"gitlab.com/navguard/store"
)

// ConfigureFlags for the configure command
func ConfigureFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "datadir",
			Usage: "data directory",
			Value: "navguardtmp",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "analysis service base address",
			Value: "",
		},
		&cli.StringFlag{
			Name:  "credential",
			Usage: "analysis service api key",
			Value: "",
		},
		&cli.BoolFlag{
			Name:  "from-env",
			Usage: "read NAVGUARD_BACKEND / NAVGUARD_API_KEY from the environment (.env honored)",
			Value: false,
		},
		&cli.BoolFlag{
			Name:  "clear",
			Usage: "clear the stored configuration",
			Value: false,
		},
		&cli.BoolFlag{
			Name:  "show",
			Usage: "print the stored configuration",
			Value: false,
		},
		&cli.BoolFlag{
			Name:  "ping",
			Usage: "check the backend health endpoint",
			Value: false,
		},
	}
}

// Configure manages the stored analysis service configuration
func Configure(cliCtx *cli.Context) error {
	configStore := store.NewConfigStore(cliCtx.String("datadir") + "/config")
	if err := configStore.Init(); err != nil {
		log.Error().Err(err).Msg("failed to init config store")
		return err
	}
	defer configStore.Close()

	if cliCtx.Bool("clear") {
		if err := configStore.Clear(); err != nil {
			return err
		}
		log.Info().Msg("configuration cleared")
		return nil
	}

	backend := cliCtx.String("backend")
	credential := cliCtx.String("credential")
	if cliCtx.Bool("from-env") {
		if err := godotenv.Load(); err != nil {
			log.Debug().Err(err).Msg("no .env file, using process environment")
		}
		if backend == "" {
			backend = os.Getenv("NAVGUARD_BACKEND")
		}
		if credential == "" {
			credential = os.Getenv("NAVGUARD_API_KEY")
		}
	}

	if backend != "" || credential != "" {
		cfg, err := configStore.Get()
		if err != nil {
			return err
		}
		if backend != "" {
			cfg.BackendAddress = strings.TrimRight(backend, "/")
		}
		if credential != "" {
			cfg.Credential = credential
		}
		if err := configStore.Set(cfg); err != nil {
			return err
		}
		log.Info().Str("backend", cfg.BackendAddress).Msg("configuration updated")
	}

	if cliCtx.Bool("show") {
		cfg, err := configStore.Get()
		if err != nil {
			return err
		}
		fmt.Printf("backend:    %s\n", valueOrUnset(cfg.BackendAddress))
		fmt.Printf("credential: %s\n", maskCredential(cfg.Credential))
	}

	if cliCtx.Bool("ping") {
		client := analysis.NewClient(configStore, navguard.NopSink{})
		if err := client.Ping(context.Background()); err != nil {
			log.Error().Err(err).Msg("backend unreachable")
			return err
		}
		log.Info().Msg("backend healthy")
	}
	return nil
}

func valueOrUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

func maskCredential(s string) string {
	if s == "" {
		return "(unset)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
