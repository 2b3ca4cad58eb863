package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var version = "dev"

// errReported means the failure has already been printed as diagnostics.
var errReported = errors.New("failed")

var rootCmd = &cobra.Command{
	Use:   "xsd2jsonschema",
	Short: "Convert XML Schema documents to JSON Schema",
	Long: `Convert XML Schema (XSD) documents to JSON Schema draft-04, draft-06 or draft-07.

Every XSD given, together with the documents it includes or imports, is
converted in one run, so types referenced across documents resolve to $refs
between the generated JSON Schema files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	if info, ok := debug.ReadBuildInfo(); ok && version == "dev" {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			version = v
		}
	}
	rootCmd.Version = version

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("color", "auto", "colorize diagnostics: auto, always or never")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
