package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts"
)

func newVersionCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if verbose {
				info := contracts.GetVersionInfo()
				fmt.Fprintln(out, contracts.GetFullVersionString())
				fmt.Fprintf(out, "data format: %s\n", info.DataFormat)
				return nil
			}
			fmt.Fprintln(out, contracts.GetVersionString())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print build details")
	return cmd
}
