package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	statusadapter "github.com/openclaw/sentinel/internal/adapters/render/status"
	"github.com/openclaw/sentinel/internal/application"
)

func newStatusCmd(app *app) *cobra.Command {
	var (
		asJSON bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon liveness, session health, and recent interventions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := app.newStatusService().Report(cmd.Context(), limit)
			if err != nil {
				return err
			}

			return writeReport(cmd, report, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the report as JSON")
	cmd.Flags().IntVar(&limit, "limit", application.DefaultRecentInterventions, "max intervention records to show")

	return cmd
}

func writeReport(cmd *cobra.Command, report application.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	rendered, err := statusadapter.Render(report)
	if err != nil {
		return fmt.Errorf("render status: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
