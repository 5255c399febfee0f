package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ziadkadry99/finquery/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize finquery configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure finquery and generates a .finquery.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
