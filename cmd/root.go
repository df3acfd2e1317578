package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rxrename/internal/config"
	"rxrename/internal/errors"

	"github.com/spf13/cobra"
)

// Execute runs the root command and maps any error to exit status 1.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		if hint := errorHint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		stop()
		os.Exit(1)
	}
}

// errorHint returns the line printed after the error message, if any.
func errorHint(err error) string {
	switch {
	case errors.IsArgument(err):
		return "Run 'rxrename --help' for usage."
	case errors.IsRename(err):
		return "Files whose rename failed were left in place; the other renames were applied."
	default:
		return ""
	}
}

func newRootCmd() *cobra.Command {
	cfg := &config.Config{}
	var noColor bool

	cmd := &cobra.Command{
		Use:   "rxrename [flags] <regex> <format> <directory>",
		Short: "Rename files based on a regular expression",
		Long: `rxrename renames every file in a directory whose name matches a regular
expression, using a replacement format that can reference capture groups
($1, ${name}, $& for the whole match, $$ for a literal dollar).

Only file names are changed, never directories. Nothing is renamed unless
--commit is given: by default the planned renames are only reported.
Renames that would collide with each other or with an existing file are
skipped and reported.

Examples:
  # Preview renaming img001.png to photo_001.png
  rxrename -v 'img(\d+)' 'photo_$1' ./pictures

  # Apply it, including subdirectories
  rxrename -r --commit 'img(\d+)' 'photo_$1' ./pictures

  # Strip a suffix, keeping the extension
  rxrename --keep-ext --commit '_copy$' '' ./docs

The log level can be set with ` + config.LogLevelEnv + ` (debug, info, warn, error).`,
		Args:          cobra.MaximumNArgs(3),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				cfg.Color = config.ColorNever
			}
			return runRename(cmd, cfg, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.Directory, "directory", "d", "", "The directory containing files to rename")
	flags.StringVar(&cfg.Pattern, "regex", "", "The regular expression matched against each file name")
	flags.StringVar(&cfg.Template, "format", "", "The replacement format")
	flags.BoolVarP(&cfg.Recursive, "recursive", "r", false, "Rename files in subdirectories too (directories are never renamed)")
	flags.BoolVar(&cfg.Commit, "commit", false, "Actually apply the changes")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Print one line per file")
	flags.BoolVar(&cfg.Debug, "debug", false, "Debug logging")
	flags.Var((*colorFlag)(&cfg.Color), "color", "Color output: auto, always, never")
	flags.BoolVar(&noColor, "no-color", false, "Disable color (same as --color=never)")
	flags.BoolVar(&cfg.FirstOnly, "first", false, "Replace only the first match in each name")
	flags.BoolVar(&cfg.KeepExtension, "keep-ext", false, "Match against the name without its extension, so '.*' -> 'x' turns a.txt into x.txt instead of x")
	flags.BoolVar(&cfg.SkipHidden, "skip-hidden", false, "Leave out files and directories whose name starts with a dot")
	flags.StringSliceVar(&cfg.Exclude, "exclude", []string{}, "Exclude files and directories matching glob (repeatable)")
	flags.VarP((*outputFormatFlag)(&cfg.OutputFormat), "output", "o", "Output format: text, table, json, csv, yaml")

	cmd.MarkFlagsMutuallyExclusive("color", "no-color")

	return cmd
}

// runRename fills the regex, format and directory from positional arguments, in
// that order, skipping whichever was already given as a flag.
func runRename(cmd *cobra.Command, cfg *config.Config, args []string) error {
	cfg.TemplateSet = cmd.Flag("format").Changed

	slots := []struct {
		flag  string
		value *string
	}{
		{"regex", &cfg.Pattern},
		{"format", &cfg.Template},
		{"directory", &cfg.Directory},
	}

	rest := args
	for _, slot := range slots {
		if cmd.Flag(slot.flag).Changed || len(rest) == 0 {
			continue
		}
		*slot.value = rest[0]
		rest = rest[1:]
		if slot.flag == "format" {
			cfg.TemplateSet = true
		}
	}
	if len(rest) > 0 {
		return errors.NewArgumentError(fmt.Sprintf("unexpected argument %q", rest[0]), nil)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	cmd.SilenceUsage = true
	return executeRename(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

type colorFlag config.ColorMode

func (f *colorFlag) String() string {
	return string(*f)
}

func (f *colorFlag) Set(v string) error {
	switch config.ColorMode(v) {
	case config.ColorAuto, config.ColorAlways, config.ColorNever:
		*f = colorFlag(v)
		return nil
	default:
		return fmt.Errorf("must be 'auto', 'always' or 'never'")
	}
}

func (f *colorFlag) Type() string {
	return "string"
}

type outputFormatFlag config.OutputFormat

func (f *outputFormatFlag) String() string {
	return string(*f)
}

func (f *outputFormatFlag) Set(v string) error {
	switch config.OutputFormat(v) {
	case config.OutputText, config.OutputTable, config.OutputJSON, config.OutputCSV, config.OutputYAML:
		*f = outputFormatFlag(v)
		return nil
	default:
		return fmt.Errorf("must be one of 'text', 'table', 'json', 'csv', 'yaml'")
	}
}

func (f *outputFormatFlag) Type() string {
	return "string"
}
