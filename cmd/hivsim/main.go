package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "hivsim/internal/sims/hiv"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hivsim",
		Short: "Agent-based HIV prevalence simulator",
		Long: `hivsim advances a population of agents in fixed time steps, applying
infection and aging events, and reports prevalence after every step.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a YAML run configuration")
	rootCmd.PersistentFlags().StringArray("set", nil, "Override a parameter (key=value, repeatable)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newSweepCmd(),
		newParamsCmd(),
		newModelsCmd(),
		newRunsCmd(),
		newViewCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hivsim version %s\n", version)
		},
	}
}
