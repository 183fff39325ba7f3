package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var setsFile string

// setsCmd lists the set mapping table in resolver precedence order.
var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "List the loaded set mappings",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.close()

		path := setsFile
		if path == "" {
			path = env.config.SetMappingsFile
		}
		return runSets(env, path, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(setsCmd)

	setsCmd.Flags().StringVar(&setsFile, "sets", "", "Set mapping file (default from config)")
}

func runSets(env *environment, path string, out io.Writer) error {
	table, err := env.loadSetTable(path, true)
	if err != nil {
		return fmt.Errorf("failed to load set mappings: %w", err)
	}

	fmt.Fprintf(out, "Set mappings from %s (%d sets loaded)\n\n", path, table.Len())

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SET NAME\tCODE")
	for _, entry := range table.Entries() {
		fmt.Fprintf(w, "%s\t%s\n", entry.Name, entry.Code)
	}
	return w.Flush()
}
