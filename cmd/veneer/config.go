package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"veneer/internal/trace"
)

// projectConfig supplies flag defaults from a veneer.toml found in the
// working directory or any parent. Flags set on the command line win.
type projectConfig struct {
	Check checkConfig `toml:"check"`
	Trace traceConfig `toml:"trace"`
}

type checkConfig struct {
	Jobs    int  `toml:"jobs"`
	NoCache bool `toml:"no_cache"`
}

type traceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
}

func findVeneerToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "veneer.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectConfig() (projectConfig, error) {
	var cfg projectConfig
	path, ok, err := findVeneerToml(".")
	if err != nil || !ok {
		return cfg, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg, nil
}

// setupTracer builds a tracer from the persistent flags, falling back
// to the config file defaults.
func setupTracer(cmd *cobra.Command, cfg projectConfig) (trace.Tracer, error) {
	levelStr, _ := cmd.Flags().GetString("trace-level")
	output, _ := cmd.Flags().GetString("trace")
	if !cmd.Flags().Changed("trace-level") && cfg.Trace.Level != "" {
		levelStr = cfg.Trace.Level
	}
	if !cmd.Flags().Changed("trace") && cfg.Trace.Output != "" {
		output = cfg.Trace.Output
	}
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	return trace.New(trace.Config{Level: level, OutputPath: output})
}

// setupColor applies the --color flag.
func setupColor(cmd *cobra.Command) {
	mode, _ := cmd.Flags().GetString("color")
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	}
}
