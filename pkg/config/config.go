// Package config provides TOML-based configuration for prompt-line.
//
// None of the settings change which segments are shown or in what order;
// they only adapt the output to the shell and terminal, and control logging.
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
)

// Accepted values of [prompt] shell.
var validShells = []string{"auto", "bash", "zsh", "fish", "none"}

// Accepted values of [prompt] colors.
var validColors = []string{"auto", "truecolor", "256", "16"}

// Config is the complete prompt-line configuration.
type Config struct {
	Prompt     PromptConfig     `toml:"prompt"`
	Kubernetes KubernetesConfig `toml:"kubernetes"`
	Log        LogConfig        `toml:"log"`
}

// PromptConfig controls how the line is written.
type PromptConfig struct {
	// Shell selects the zero-width markers around escapes. "auto" detects
	// the calling shell.
	Shell string `toml:"shell"`

	// Colors selects the color depth: "truecolor", "256", "16" or "auto"
	// (from COLORTERM and TERM).
	Colors string `toml:"colors"`

	// Newline ends the segments on their own line, leaving the cursor on a
	// fresh line below.
	Newline bool `toml:"newline"`
}

// KubernetesConfig controls the cluster badges.
type KubernetesConfig struct {
	// ManagerTrimPrefix and ManagerTrimSuffix shorten the manager cluster's
	// server URL; both must match for either to be removed.
	ManagerTrimPrefix string `toml:"manager_trim_prefix"`
	ManagerTrimSuffix string `toml:"manager_trim_suffix"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(validShells, c.Prompt.Shell) {
		errs = append(errs, fmt.Errorf("prompt.shell: %q is not one of %v", c.Prompt.Shell, validShells))
	}
	if !slices.Contains(validColors, c.Prompt.Colors) {
		errs = append(errs, fmt.Errorf("prompt.colors: %q is not one of %v", c.Prompt.Colors, validColors))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}
