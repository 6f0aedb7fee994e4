package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "qplctl",
	Short:        "qplctl",
	SilenceUsage: true,
	Long:         `CLI tool for validating QPL programs against a registered schema.`,
}

var (
	schemaPath       string
	withTypeChecking bool
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&schemaPath, "schema", "s", "", "path to a JSON-encoded SqlSchema file")
	rootCmd.PersistentFlags().BoolVar(&withTypeChecking, "type-checking", true, "enforce comparison type checking")
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
