package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nickyhof/MyDB"
	"github.com/nickyhof/MyDB/config"
	"github.com/nickyhof/MyDB/core"
	"github.com/nickyhof/MyDB/db"
)

const (
	PromptColor  = "\033[36m" // Cyan
	ErrorColor   = "\033[31m" // Red
	SuccessColor = "\033[32m" // Green
	ResetColor   = "\033[0m"
	BoldColor    = "\033[1m"
)

// app is the state shared by every command, filled in before a command runs.
type app struct {
	cfgFile  string
	identity core.Identity

	cfg      *config.Config
	logger   *slog.Logger
	instance *MyDB.Instance
}

func (a *app) s3() *db.S3Config {
	return &a.cfg.S3
}

func (a *app) engine() *db.Engine {
	return a.instance.Engine(a.identity)
}

// NewRootCmd creates the mydb command tree. Without a subcommand it starts
// the interactive shell.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "mydb",
		Short: "MyDB - SQL catalog shell",
		Long: `MyDB compiles SQL DDL into an in-memory catalog.

Run without arguments for an interactive shell, or use compile and export
to check and convert SQL scripts from local files, HTTP, S3 or Git.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = cfg.Log.NewLogger(cmd.ErrOrStderr())
			a.instance = MyDB.Open(
				MyDB.WithLogger(a.logger),
				MyDB.WithStatementCache(cfg.Cache.Statements),
			)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, a)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./mydb.yaml)")
	flags.StringVar(&a.identity.Name, "name", "MyDB", "User name for the session")
	flags.StringVar(&a.identity.Email, "email", "cli@mydb.local", "User email for the session")
	flags.String("log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "Log format (text, json)")
	flags.String("s3-region", "", "S3 region for s3:// sources")
	flags.String("s3-endpoint", "", "Custom S3-compatible endpoint")
	flags.Int("cache-size", db.DefaultStatementCacheSize, "Prepared statements cached per session")

	rootCmd.AddCommand(newREPLCommand(a))
	rootCmd.AddCommand(newCompileCommand(a))
	rootCmd.AddCommand(newExportCommand(a))

	return rootCmd
}
