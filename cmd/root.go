package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "finquery",
	Short: "Conversational financial question answering",
	Long: `Finquery answers natural-language financial questions by routing each
query to the right mix of market-data, fundamentals and AI-research
providers, merging their results into one conversational answer with
follow-up suggestions.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".finquery.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
