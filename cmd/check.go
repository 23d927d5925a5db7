package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclaw/sentinel/internal/application"
	"github.com/openclaw/sentinel/internal/domain"
)

// check runs one scan-and-evaluate cycle without intervening, so
// operators can see what the daemon would do before trusting it.
func newCheckCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run one detection cycle without intervening",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var result application.CycleResult

			scan := func() error {
				var err error
				result, err = app.newMonitor().Snapshot(cmd.Context())
				return err
			}

			if asJSON {
				if err := scan(); err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result.Sessions)
			}

			if err := runScanSpinner(cmd.Context(), cmd.ErrOrStderr(), scan); err != nil {
				return err
			}

			return writeCheckResult(cmd, result)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit verdicts as JSON")

	return cmd
}

func writeCheckResult(cmd *cobra.Command, result application.CycleResult) error {
	out := cmd.OutOrStdout()

	if len(result.Sessions) == 0 {
		_, err := fmt.Fprintln(out, "No active sessions found")
		return err
	}

	alerts := 0
	for _, health := range result.Sessions {
		if health.Verdict.Layer == domain.NoTrigger {
			continue
		}
		alerts++
		if _, err := fmt.Fprintf(out, "[%s] %s: %s\n",
			health.Verdict.Layer, health.Session.ID, health.Verdict.Reason); err != nil {
			return err
		}
	}

	if alerts == 0 {
		_, err := fmt.Fprintf(out, "No alerts (%d sessions healthy)\n", len(result.Sessions))
		return err
	}

	return nil
}
