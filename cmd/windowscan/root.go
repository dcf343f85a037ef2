package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var (
		configFlag    string
		inputFlag     string
		outputFlag    string
		logLevelFlag  string
		logFormatFlag string
		topKFlag      int
		toleranceFlag float64
	)

	ctx := newCommandContext(&configFlag, &inputFlag, &outputFlag,
		&logLevelFlag, &logFormatFlag, &topKFlag, &toleranceFlag)

	rootCmd := &cobra.Command{
		Use:   "windowscan",
		Short: "Analyze behavior classifier window-size scan results",
		Long: "windowscan parses the text output of a classifier window-size\n" +
			"cross-validation scan, validates its internal consistency, computes\n" +
			"per-window statistics and renders reports (HTML, LaTeX, Excel, SVG).",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFlag, "config", "c", "", "configuration file path")
	flags.StringVarP(&inputFlag, "input", "i", "", "scan results text file")
	flags.StringVarP(&outputFlag, "output", "o", "", "output directory for tables and reports")
	flags.StringVar(&logLevelFlag, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&logFormatFlag, "log-format", "", "log format (json, text)")
	flags.IntVar(&topKFlag, "top-k", 0, "ranking length for worst-video and sensitivity tables")
	flags.Float64Var(&toleranceFlag, "tolerance", 0, "relative tolerance for summary statistic checks")

	rootCmd.AddCommand(newParseCommand(ctx))
	rootCmd.AddCommand(newValidateCommand(ctx))
	rootCmd.AddCommand(newStatsCommand(ctx))
	rootCmd.AddCommand(newReportCommand(ctx))
	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
