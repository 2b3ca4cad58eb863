package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/agentflare-ai/go-xsd2jsonschema"
)

var convertCmd = &cobra.Command{
	Use:   "convert <xsd>...",
	Short: "Convert XSD documents to JSON Schema",
	Long: `Convert XSD documents to JSON Schema.

One .json file is written per XSD document, named after it, including the
documents reached through xs:include and xs:import. With --check the written
schemas are compiled against their draft's meta-schema and every $ref is
resolved.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	addConvertFlags(convertCmd)
}

func addConvertFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", ".", "output directory")
	cmd.Flags().String("draft", "draft-04", "JSON Schema draft: draft-04, draft-06 or draft-07")
	cmd.Flags().String("namespace-mode", "nested", "type placement: nested or definitions")
	cmd.Flags().String("uri-dialect", "rfc3986", "xs:anyURI rendering: rfc3986 or rfc2396")
	cmd.Flags().String("config", "", "YAML configuration file")
	cmd.Flags().Bool("allow-remote", false, "load http(s) schema locations")
	cmd.Flags().Bool("validate", true, "check XSD documents for structural errors before converting")
	cmd.Flags().Bool("check", false, "compile the generated schemas")
}

func runConvert(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return err
	}
	logger := newLogger(cmd)

	loader := xsd2jsonschema.NewSchemaLoader("")
	loader.AllowRemote = cfg.AllowRemote
	loader.ValidateDocuments = cfg.Validate
	loader.Logger = logger
	files, err := loader.Load(cmd.Context(), args...)
	if err != nil {
		return report(cmd, err)
	}

	converter := xsd2jsonschema.New(xsd2jsonschema.WithOptions(cfg.Options), xsd2jsonschema.WithLogger(logger))
	result, err := converter.Convert(files...)
	if err != nil {
		return report(cmd, err)
	}
	if cfg.Check {
		if _, err := result.Compile(); err != nil {
			return report(cmd, err)
		}
	}

	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	g, _ := errgroup.WithContext(cmd.Context())
	for _, doc := range result.Documents {
		g.Go(func() error {
			data, err := doc.JSON()
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", doc.Name, err)
			}
			return os.WriteFile(filepath.Join(cfg.Output, doc.Name), data, 0o644)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, doc := range result.Documents {
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", doc.Source, filepath.Join(cfg.Output, doc.Name))
	}
	return nil
}

// report prints err as diagnostics, quoting the XSD source where known.
func report(cmd *cobra.Command, err error) error {
	formatter := &xsd2jsonschema.ErrorFormatter{Color: useColor(cmd, os.Stderr)}
	sources := make(map[string]string)
	for _, diag := range xsd2jsonschema.Diagnostics(err) {
		file := diag.Position.File
		if _, ok := sources[file]; !ok && file != "" {
			data, _ := os.ReadFile(file)
			sources[file] = string(data)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), formatter.Format(diag, sources[file]))
	}
	return errReported
}
