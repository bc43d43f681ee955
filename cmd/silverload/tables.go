package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/silverload/internal/core"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the registered tables in refresh order",
	Args:  cobra.NoArgs,
	// Listing needs no database or configuration.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runTables,
}

var tablesFlags struct {
	json bool
}

func init() {
	tablesCmd.Flags().BoolVar(&tablesFlags.json, "json", false, "Print the tables as JSON")

	rootCmd.AddCommand(tablesCmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	infos := make([]core.TableInfo, 0, core.TableCount())
	for _, def := range core.All() {
		infos = append(infos, def.Info)
	}

	out := cmd.OutOrStdout()
	if tablesFlags.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTABLE\tGROUP\tLABEL\tCOLUMNS")
	for i, info := range infos {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, info.Key, info.Group, info.Label, strings.Join(info.Columns, ", "))
	}
	return tw.Flush()
}
