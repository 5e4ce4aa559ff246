package clicmds

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gitlab.com/navguard/navguard"
	"gitlab.com/navguard/store"
)

// EventsFlags for the events command
func EventsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "datadir",
			Usage: "data directory",
			Value: "navguardtmp",
		},
		&cli.StringFlag{
			Name:  "flow",
			Usage: "only print events for this flow id",
			Value: "",
		},
	}
}

// Events dumps the journaled event log so a guarded session can be
// reviewed after the fact
func Events(cliCtx *cli.Context) error {
	journal := store.NewEventJournal(cliCtx.String("datadir") + "/events")
	if err := journal.Init(); err != nil {
		log.Error().Err(err).Msg("failed to open event journal for viewing")
		return err
	}
	defer journal.Close()

	flow := cliCtx.String("flow")
	count := 0
	err := journal.Walk(func(evt navguard.Event) error {
		if flow != "" && evt.FlowID != flow {
			return nil
		}
		count++
		fmt.Printf("%s %-22s flow=%s%s\n", evt.TS.Format(time.RFC3339Nano), evt.Name, evt.FlowID, formatDetails(evt.Details))
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Printf("%d events\n", count)
	return nil
}

// formatDetails renders detail fields in sorted key order so repeated dumps
// of the same journal line up
func formatDetails(details map[string]interface{}) string {
	if len(details) == 0 {
		return ""
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := &strings.Builder{}
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, details[k])
	}
	return b.String()
}
