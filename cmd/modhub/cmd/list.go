package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modhub/modhub/pkg/catalog"
	"github.com/modhub/modhub/pkg/sections"
)

var listAll bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed, updatable, and remote modules",
	RunE: func(cmd *cobra.Command, _ []string) error {
		hub, err := buildHub()
		if err != nil {
			return err
		}
		defer func() { _ = hub.Close() }()

		ctx := cmd.Context()
		if err := hub.Refresh(ctx); err != nil {
			return err
		}

		// Page through the remote section when everything was asked for.
		if listAll {
			for {
				before := hub.Sections().Remote.Len()
				if err := hub.LoadRemote(ctx); err != nil {
					return err
				}
				if hub.Sections().Remote.Len() == before {
					break
				}
			}
		}

		printRows(hub.Sections().Rows())
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "page through the full remote catalog")
	rootCmd.AddCommand(listCmd)
}

// printRows renders the section sequence as plain text.
func printRows(rows []sections.Row) {
	for _, row := range rows {
		switch row.Kind {
		case sections.RowHeader:
			fmt.Printf("\n== %s ==\n", row.Section)
		case sections.RowPlaceholder:
			fmt.Printf("  (no %s modules)\n", row.Section)
		case sections.RowEntry:
			printEntry(row.Entry)
		}
	}
}

func printEntry(entry any) {
	switch e := entry.(type) {
	case *catalog.UpdateEntry:
		fmt.Printf("  %-32s %s -> %s\n", e.ID, e.Installed.Version, e.Remote.Version)
	case *catalog.InstalledEntry:
		marker := " "
		if e.Modified {
			marker = "*"
		}
		fmt.Printf("  %s %-30s %s (%d)\n", marker, e.Name, e.Version, e.VersionCode)
	case *catalog.RemoteEntry:
		fmt.Printf("  %-32s %s by %s\n", e.Name, e.Version, e.Author)
	}
}
