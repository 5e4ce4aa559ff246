package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"gitlab.com/navguard/clicmds"
)

func main() {
	app := cli.NewApp()
	app.Name = "navguard"
	app.Version = "0.1"
	app.Usage = "Guard browser navigations against phishing destinations"
	app.Commands = []*cli.Command{
		{
			Name:    "guard",
			Aliases: []string{"g"},
			Usage:   "launch or attach to a browser and guard its navigations",
			Action:  clicmds.Guard,
			Flags:   clicmds.GuardFlags(),
		},
		{
			Name:    "check",
			Aliases: []string{"c"},
			Usage:   "run one url through the decision engine on the terminal",
			Action:  clicmds.Check,
			Flags:   clicmds.CheckFlags(),
		},
		{
			Name:   "configure",
			Usage:  "manage the analysis service address and credential",
			Action: clicmds.Configure,
			Flags:  clicmds.ConfigureFlags(),
		},
		{
			Name:   "events",
			Usage:  "dump the journaled navigation event log",
			Action: clicmds.Events,
			Flags:  clicmds.EventsFlags(),
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
