package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Show installed modules with a newer remote version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		hub, err := buildHub()
		if err != nil {
			return err
		}
		defer func() { _ = hub.Close() }()

		if err := hub.Refresh(cmd.Context()); err != nil {
			return err
		}

		updates := hub.Sections().Updatable.Items()
		if len(updates) == 0 {
			fmt.Println("everything is up to date")
			return nil
		}
		for _, u := range updates {
			fmt.Printf("%-32s %s (%d) -> %s (%d)\n", u.ID,
				u.Installed.Version, u.Installed.VersionCode,
				u.Remote.Version, u.Remote.VersionCode)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
