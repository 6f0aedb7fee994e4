package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"github.com/qplang/qpl"
)

var validateCmd = &cobra.Command{
	Use:   "validate <qpl-string-or-file>",
	Short: "classify a QPL program as complete, partial, or a failure",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	if schemaPath == "" {
		return errors.New("--schema is required")
	}
	schemaBytes, err := os.ReadFile(schemaPath)
	if err != nil {
		return errors.Annotate(err, "reading schema file")
	}
	var schema qpl.SqlSchema
	if err := json.Unmarshal(schemaBytes, &schema); err != nil {
		return errors.Annotate(err, "parsing schema file")
	}

	input := args[0]
	if body, err := os.ReadFile(input); err == nil {
		input = string(body)
	}

	registry := qpl.NewSchemaRegistry()
	registry.Register(&schema)

	result := qpl.Classify(input, true, registry, qpl.WithTypeChecking(withTypeChecking))
	fmt.Printf("%s", result.Result)
	if result.Reason != "" {
		fmt.Printf(": %s", result.Reason)
	}
	fmt.Println()
	if result.Result != qpl.ResultComplete {
		os.Exit(1)
	}
	return nil
}
