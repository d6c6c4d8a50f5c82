package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nickyhof/MyDB/db"
)

type compileOptions struct {
	format      string
	gitURL      string
	ref         string
	concurrency int
	watch       bool
}

func newCompileCommand(a *app) *cobra.Command {
	opts := &compileOptions{}

	cmd := &cobra.Command{
		Use:   "compile [source...]",
		Short: "Compile SQL scripts without executing them",
		Long: `Compile SQL scripts and report the statement each one produces.

Sources are local files or directories, http(s):// URLs or s3:// objects.
With --git every .sql file of a Git repository is compiled as well.
Nothing is added to a catalog.`,
		Example: `  mydb compile schema.sql
  mydb compile ./migrations --format json
  mydb compile --git https://github.com/acme/schemas.git --ref main
  mydb compile ./migrations --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			if len(args) == 0 && opts.gitURL == "" {
				return fmt.Errorf("no sources given")
			}
			if opts.watch {
				return runCompileWatch(cmd, a, args, opts)
			}
			return runCompile(cmd.Context(), cmd, a, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", FormatTable, "Output format (table, json, yaml)")
	cmd.Flags().StringVar(&opts.gitURL, "git", "", "Also compile the .sql files of this Git repository")
	cmd.Flags().StringVar(&opts.ref, "ref", "", "Git branch or tag to check out (default: remote HEAD)")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", 0, "Scripts compiled in parallel (default: GOMAXPROCS)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Recompile local sources when they change")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{FormatTable, FormatJSON, FormatYAML}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// compileOnce loads and compiles the sources and renders the outcome. It
// returns the number of statements that failed to compile.
func compileOnce(ctx context.Context, cmd *cobra.Command, a *app, sources []string, opts *compileOptions) (int, error) {
	scripts, err := loadScripts(ctx, sources, opts.gitURL, opts.ref, a.s3())
	if err != nil {
		return 0, err
	}

	compiled, err := db.CompileAll(ctx, scripts, opts.concurrency)
	if err != nil {
		return 0, err
	}
	a.logger.Debug("compiled scripts", "scripts", len(scripts), "statements", len(compiled))

	if err := renderCompiled(cmd.OutOrStdout(), compiled, opts.format); err != nil {
		return 0, err
	}
	return countFailed(compiled), nil
}

func runCompile(ctx context.Context, cmd *cobra.Command, a *app, sources []string, opts *compileOptions) error {
	failed, err := compileOnce(ctx, cmd, a, sources, opts)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d statement(s) failed to compile", failed)
	}
	return nil
}
