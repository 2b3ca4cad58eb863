package main

import (
	"errors"
	"fmt"

	jsv "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <json>...",
	Short: "Compile JSON Schema documents",
	Long: `Compile JSON Schema documents, for example the output of convert.

Each document is checked against the meta-schema of its $schema draft and
every $ref it contains, including references into other files, must resolve.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	c := jsv.NewCompiler()
	var errs []error
	for _, path := range args {
		if _, err := c.Compile(path); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
	}
	if err := errors.Join(errs...); err != nil {
		return report(cmd, err)
	}
	return nil
}
