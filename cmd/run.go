package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/momentum/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive questionnaire",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp builds the collaborator and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	collab, err := newCollaborator(ctx)
	if err != nil {
		return err
	}

	return app.Run(ctx, app.Options{
		Catalog:      catalog,
		Collaborator: collab,
		Metrics:      rt.metrics,
		Logger:       rt.logger,
	})
}
