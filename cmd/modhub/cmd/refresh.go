package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshForce bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the local module index",
	Long: `Refresh updates the locally cached module index.

By default the refresh is incremental: rows unaffected by upstream changes
may be skipped. With --force every row is unconditionally re-fetched.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		hub, err := buildHub()
		if err != nil {
			return err
		}
		defer func() { _ = hub.Close() }()

		ctx := cmd.Context()
		if refreshForce {
			err = hub.ForceRefresh(ctx)
		} else {
			err = hub.Refresh(ctx)
		}
		if err != nil {
			return err
		}

		fmt.Printf("index refreshed: %d remote, %d installed, %d updatable\n",
			hub.Sections().Remote.Len(),
			hub.Sections().Installed.Len(),
			hub.Sections().Updatable.Len())
		return nil
	},
}

func init() {
	refreshCmd.Flags().BoolVarP(&refreshForce, "force", "f", false, "unconditionally re-fetch every index row")
	rootCmd.AddCommand(refreshCmd)
}
