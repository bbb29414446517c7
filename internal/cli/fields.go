package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cardops/modelcard/fieldmap"
)

var fieldsFlags struct {
	reverse bool
}

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the form fields and the columns they are stored in",
	Args:  exactArgs(0),
	RunE:  runFields,
}

func init() {
	fieldsCmd.Flags().BoolVar(&fieldsFlags.reverse, "reverse", false, "List columns first, sorted by column")
	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, _ []string) error {
	entries := fieldmap.Default().Entries()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	if fieldsFlags.reverse {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Column < entries[j].Column })
		fmt.Fprintln(w, "COLUMN\tFIELD")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\n", e.Column, e.Field)
		}
	} else {
		fmt.Fprintln(w, "FIELD\tCOLUMN")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\n", e.Field, e.Column)
		}
	}
	return w.Flush()
}
