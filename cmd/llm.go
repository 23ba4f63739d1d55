package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/momentum/internal/coach/llmcoach"
	"github.com/abhisek/momentum/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the LLM backend configuration",
}

var llmModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models with known pricing and the worst-case cost of one session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := rt.cfg.LLM
		current := cfg.ModelID()
		budget := llmcoach.DefaultConfig()
		outTokens := budget.ScoreMaxTokens + budget.PlanMaxTokens

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Provider: %s\n", orNone(cfg.Provider))
		fmt.Fprintf(out, "Model:    %s\n\n", orNone(current))

		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderRow(false).
			Headers("", "Model", "In $/MTok", "Out $/MTok", "Max session")
		for _, id := range llm.PricedModels() {
			c := llm.LookupCost(id)
			mark := ""
			if id == current {
				mark = "*"
			}
			t.Row(mark, truncate(id, 28),
				fmt.Sprintf("%.2f", c.InputPerMTok),
				fmt.Sprintf("%.2f", c.OutputPerMTok),
				formatCost(c.Cost(0, outTokens)))
		}
		fmt.Fprintln(out, t.String())

		if current != "" && llm.LookupCost(current) == nil {
			fmt.Fprintf(out, "\nPricing unavailable for: %s\n", current)
		}
		return nil
	},
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmCmd.AddCommand(llmModelsCmd)
}
