package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/momentum/internal/questionnaire"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the question catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		c, err := loadCatalog()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Steps []questionnaire.Step `json:"steps"`
			}{c.Steps()})
		}
		printCatalog(out, c)
		return nil
	},
}

func init() {
	catalogCmd.Flags().Bool("json", false, "Print JSON")
}

func printCatalog(w io.Writer, c *questionnaire.Catalog) {
	for i, s := range c.Steps() {
		fmt.Fprintf(w, "%2d. %s\n", i+1, s.Prompt)
		fmt.Fprintf(w, "    kind:  %s\n", s.Kind)
		fmt.Fprintf(w, "    slots: %s\n", strings.Join(s.AnswerSlots(), ", "))
		if len(s.Options) > 0 {
			fmt.Fprintf(w, "    options: %s\n", strings.Join(s.Options, " | "))
		}
		if s.MaxSelections > 0 {
			fmt.Fprintf(w, "    max selections: %d\n", s.MaxSelections)
		}
		if s.Range != nil {
			fmt.Fprintf(w, "    range: %g..%g step %g (default %g)\n",
				s.Range.Min, s.Range.Max, s.Range.Step, s.Range.Default)
		}
		fmt.Fprintln(w)
	}
}
