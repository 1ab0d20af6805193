// prompt-line renders a powerline-style shell prompt.
//
// It gathers the clock, host, user, working directory, git repository,
// OpenStack project, Kubernetes clusters and the previous command's exit
// status once, then writes them as a single line of colored segments.
//
// Usage:
//
//	prompt-line [flags]
//	prompt-line init <bash|zsh|fish>
//
// Flags:
//
//	-e, --exit-code int   Exit status of the previous command (omit on the first prompt)
//	    --shell string    Marker style: bash, zsh, fish or none (default from config, else detected)
//	    --config string   Path to configuration file (default: ~/.config/prompt-line/config.toml)
//	-v, --verbose         Log debug output to stderr
//	    --version         Print version and exit
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/prompt-line/pkg/collectors"
	"gitlab.com/tinyland/lab/prompt-line/pkg/config"
	"gitlab.com/tinyland/lab/prompt-line/pkg/logging"
	"gitlab.com/tinyland/lab/prompt-line/pkg/prompt"
	"gitlab.com/tinyland/lab/prompt-line/pkg/shell"
	"gitlab.com/tinyland/lab/prompt-line/pkg/terminal"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

type rootOptions struct {
	exitCode   int
	shell      string
	configPath string
	verbose    bool
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "prompt-line",
		Short:        "Render a powerline-style shell prompt",
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var exitCode *int
			if cmd.Flags().Changed("exit-code") {
				code := opts.exitCode
				exitCode = &code
			}
			return runPrompt(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, exitCode)
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} {{.Version}} (%s) built %s\n", commit, date))

	flags := cmd.Flags()
	flags.IntVarP(&opts.exitCode, "exit-code", "e", 0, "Exit status of the previous command (omit on the first prompt)")
	flags.StringVar(&opts.shell, "shell", "", "Marker style: bash, zsh, fish or none (default from config, else detected)")
	flags.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(newInitCommand())
	return cmd
}

func newInitCommand() *cobra.Command {
	opts := shell.DefaultOptions()
	cmd := &cobra.Command{
		Use:       "init <bash|zsh|fish>",
		Short:     "Print the snippet that installs prompt-line as the shell prompt",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(shell.Bash), string(shell.Zsh), string(shell.Fish)},
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := shell.Parse(args[0])
			if err != nil {
				return err
			}
			if !slices.Contains(shell.Supported(), st) {
				return fmt.Errorf("no integration for %q (supported: bash, zsh, fish)", args[0])
			}
			_, err = io.WriteString(cmd.OutOrStdout(), shell.Generate(st, opts))
			return err
		},
	}
	cmd.Flags().StringVar(&opts.BinaryPath, "binary", opts.BinaryPath, "prompt-line executable the snippet runs")
	return cmd
}

// runPrompt renders one prompt line. Data-source and configuration problems
// only degrade the line; write errors fail the command.
func runPrompt(ctx context.Context, stdout, stderr io.Writer, opts *rootOptions, exitCode *int) error {
	cfg, cfgErr := loadConfig(opts.configPath)

	logger, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Verbose: opts.verbose,
		Stderr:  stderr,
	})
	if err != nil {
		return err
	}
	defer logger.Close()
	log := logger.Component("prompt")
	if cfgErr != nil {
		log.WithError(cfgErr).Warn("using default configuration")
	}

	env := collectors.OSEnv()

	shellName := opts.shell
	if shellName == "" {
		shellName = cfg.Prompt.Shell
	}
	var st shell.ShellType
	if shellName == "auto" {
		st = shell.Detect(env)
	} else if st, err = shell.Parse(shellName); err != nil {
		return err
	}
	log.WithField("shell", st).Debug("selected markers")

	src := prompt.DefaultSources(logger.Component("collect"))
	src.Kubernetes.ManagerTrimPrefix = cfg.Kubernetes.ManagerTrimPrefix
	src.Kubernetes.ManagerTrimSuffix = cfg.Kubernetes.ManagerTrimSuffix
	snap := prompt.Gather(ctx, src, exitCode)

	out := bufio.NewWriter(stdout)
	err = prompt.Render(out, prompt.Segments(snap), prompt.Options{
		Markers: shell.Markers(st),
		Profile: terminal.ParseProfile(cfg.Prompt.Colors, env),
		Newline: cfg.Prompt.Newline,
		Log:     log,
	})
	if err != nil {
		return fmt.Errorf("write prompt: %w", err)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("write prompt: %w", err)
	}
	return nil
}

// loadConfig returns the configuration to use. On any problem it returns the
// defaults together with the error.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return config.DefaultConfig(), fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
