package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sentinel",
		Short:         "Session bloat detection and intervention for OpenClaw gateways",
		Long:          "sentinel watches OpenClaw session logs for runaway context-injection loops, classifies anomalies by severity, and archives-then-resets bloated sessions before they take the gateway down.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newStatusCmd(app),
		newCheckCmd(app),
		newDaemonCmd(app),
		newStopCmd(app),
	)

	return rootCmd
}
