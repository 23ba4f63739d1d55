package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/momentum/internal/coach"
	"github.com/abhisek/momentum/internal/questionnaire"
	"github.com/abhisek/momentum/internal/report"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Answer the questionnaire from a YAML file and print the profile",
	Long: "Submit loads answers keyed by answer slot (see `momentum catalog`), walks\n" +
		"the questionnaire step by step with the same validation as the interactive\n" +
		"session, submits it and prints the profile. With --plan it also requests\n" +
		"a coaching plan.",
	Example: "  momentum submit --answers answers.yaml --plan\n  momentum submit -a - --json < answers.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path, _ := cmd.Flags().GetString("answers")
		withPlan, _ := cmd.Flags().GetBool("plan")
		asJSON, _ := cmd.Flags().GetBool("json")
		style, _ := cmd.Flags().GetString("style")

		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		answers, err := readAnswers(catalog, path, cmd.InOrStdin())
		if err != nil {
			return err
		}
		collab, err := newCollaborator(ctx)
		if err != nil {
			return err
		}

		sess := coach.NewSession(questionnaire.NewNavigator(answers), collab)
		if err := walk(cmd, sess); err != nil {
			return err
		}

		var plan *coach.PlanResult
		if withPlan {
			if plan, err = sess.GeneratePlan(ctx); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, sess.Profile(), plan)
		}
		r, err := report.NewRenderer(80, style)
		if err != nil {
			rt.logger.Warn("markdown renderer unavailable", "error", err)
		}
		fmt.Fprint(out, r.Render(report.ProfileMarkdown(sess.Profile())))
		if plan != nil {
			fmt.Fprint(out, r.Render(report.PlanMarkdown(plan)))
		}
		return nil
	},
}

func init() {
	submitCmd.Flags().StringP("answers", "a", "", "YAML answers file, or - for stdin")
	submitCmd.Flags().Bool("plan", false, "Also generate a coaching plan")
	submitCmd.Flags().Bool("json", false, "Print JSON instead of formatted text")
	submitCmd.Flags().String("style", "", "Markdown style (dark, light, notty); auto-detected when empty")
	_ = submitCmd.MarkFlagRequired("answers")
}

func readAnswers(c *questionnaire.Catalog, path string, stdin io.Reader) (*questionnaire.Answers, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open answers: %w", err)
		}
		defer f.Close()
		r = f
	}
	a, err := questionnaire.LoadAnswers(c, r)
	if err != nil {
		return nil, fmt.Errorf("answers %s: %w", path, err)
	}
	return a, nil
}

// walk presses Next until the session has a profile. A refused step is
// reported with the validator's reason.
func walk(cmd *cobra.Command, sess *coach.Session) error {
	nav := sess.Navigator()
	for nav.Phase() == questionnaire.PhaseAnswering {
		step := nav.Step()
		out, err := sess.Next(cmd.Context())
		if err != nil {
			return err
		}
		if out == questionnaire.OutcomeRefused {
			rt.metrics.IncStepRefusal(step.Field)
			return fmt.Errorf("step %d (%s): %s", nav.Index()+1, step.Field,
				questionnaire.BlockReason(step, nav.Answers()))
		}
	}
	if sess.Profile() == nil {
		return errors.New("no profile received")
	}
	return nil
}

func writeJSON(w io.Writer, p *coach.Profile, plan *coach.PlanResult) error {
	doc := struct {
		Profile *coach.Profile    `json:"profile"`
		Plan    *coach.PlanResult `json:"plan,omitempty"`
	}{p, plan}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
