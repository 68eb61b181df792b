package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/modhub/modhub"
)

// searchWait bounds how long the CLI waits for debounced results.
const searchWait = 10 * time.Second

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Search the module catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hub, err := buildHub()
		if err != nil {
			return err
		}
		defer func() { _ = hub.Close() }()

		ctx := cmd.Context()
		if err := hub.LoadRemote(ctx); err != nil {
			return err
		}

		hub.Query(strings.Join(args, " "))
		if err := waitForResults(hub); err != nil {
			return err
		}

		rows := hub.Sections().SearchRows()
		if len(rows) == 0 {
			fmt.Println("no matches")
			return nil
		}
		printRows(rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

// waitForResults polls the optimistic loading flag until the query engine
// delivers, or gives up after searchWait.
func waitForResults(hub modhub.Hub) error {
	deadline := time.Now().Add(searchWait)
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()

	for range tick.C {
		if !hub.SearchLoading() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("search timed out after %v", searchWait)
		}
	}
	return nil
}
