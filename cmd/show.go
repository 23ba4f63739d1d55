package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/momentum/internal/coach"
	"github.com/abhisek/momentum/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show <profile-id>",
	Short: "Fetch a stored profile and its plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id := args[0]
		asJSON, _ := cmd.Flags().GetBool("json")
		style, _ := cmd.Flags().GetString("style")

		collab, err := newCollaborator(ctx)
		if err != nil {
			return err
		}
		f, ok := collab.(coach.Fetcher)
		if !ok {
			return fmt.Errorf("backend %q cannot fetch stored results", rt.cfg.Backend)
		}

		p, err := f.FetchProfile(ctx, id)
		if errors.Is(err, errors.ErrUnsupported) {
			return fmt.Errorf("backend %q cannot fetch stored results", rt.cfg.Backend)
		}
		if err != nil {
			return err
		}
		plan, err := f.FetchPlan(ctx, id)
		var callErr *coach.Error
		switch {
		case errors.As(err, &callErr) && callErr.NotFound():
			plan = nil
		case err != nil:
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, p, plan)
		}
		r, err := report.NewRenderer(80, style)
		if err != nil {
			rt.logger.Warn("markdown renderer unavailable", "error", err)
		}
		fmt.Fprint(out, r.Render(report.ProfileMarkdown(p)))
		if plan == nil {
			fmt.Fprintln(out, "No plan has been generated for this profile yet.")
			return nil
		}
		fmt.Fprint(out, r.Render(report.PlanMarkdown(plan)))
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("json", false, "Print JSON instead of formatted text")
	showCmd.Flags().String("style", "", "Markdown style (dark, light, notty); auto-detected when empty")
}
