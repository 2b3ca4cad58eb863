package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/agentflare-ai/go-xsd2jsonschema"
	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

// config is the YAML file accepted by --config. Flags set on the command
// line override it.
type config struct {
	xsd2jsonschema.Options `yaml:",inline"`

	Output      string `yaml:"output"`
	AllowRemote bool   `yaml:"allowRemote"`
	Validate    bool   `yaml:"validate"`
	Check       bool   `yaml:"check"`
}

func defaultConfig() config {
	return config{
		Options:  xsd2jsonschema.DefaultOptions(),
		Output:   ".",
		Validate: true,
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyFlags overrides cfg with the flags that were set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config) error {
	flags := cmd.Flags()
	if flags.Changed("draft") {
		s, _ := flags.GetString("draft")
		d, err := jsonschema.ParseDraft(s)
		if err != nil {
			return err
		}
		cfg.Draft = d
	}
	if flags.Changed("namespace-mode") {
		s, _ := flags.GetString("namespace-mode")
		m, err := xsd2jsonschema.ParseNamespaceMode(s)
		if err != nil {
			return err
		}
		cfg.NamespaceMode = m
	}
	if flags.Changed("uri-dialect") {
		s, _ := flags.GetString("uri-dialect")
		u, err := xsd2jsonschema.ParseURIDialect(s)
		if err != nil {
			return err
		}
		cfg.URIDialect = u
	}
	if flags.Changed("output") {
		cfg.Output, _ = flags.GetString("output")
	}
	if flags.Changed("allow-remote") {
		cfg.AllowRemote, _ = flags.GetBool("allow-remote")
	}
	if flags.Changed("validate") {
		cfg.Validate, _ = flags.GetBool("validate")
	}
	if flags.Changed("check") {
		cfg.Check, _ = flags.GetBool("check")
	}
	return nil
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// useColor decides whether diagnostics written to f are colorized.
func useColor(cmd *cobra.Command, f *os.File) bool {
	switch mode, _ := cmd.Flags().GetString("color"); mode {
	case "always":
		return true
	case "never":
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
