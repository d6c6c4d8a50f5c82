package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nickyhof/MyDB/db"
)

func newExportCommand(a *app) *cobra.Command {
	var dialectName, out, gitURL, ref string

	cmd := &cobra.Command{
		Use:   "export [source...]",
		Short: "Load SQL scripts into a catalog and export it as DDL",
		Long: `Execute SQL scripts against a fresh catalog and write the resulting tables
as CREATE TABLE statements in the chosen dialect.

The output goes to stdout, a local file or an s3:// object.`,
		Example: `  mydb export schema.sql --dialect duckdb
  mydb export ./migrations --out s3://bucket/schema.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect, err := db.ParseDialect(dialectName)
			if err != nil {
				return err
			}
			if len(args) == 0 && gitURL == "" {
				return fmt.Errorf("no sources given")
			}

			ctx := cmd.Context()
			scripts, err := loadScripts(ctx, args, gitURL, ref, a.s3())
			if err != nil {
				return err
			}

			engine := a.engine()
			for _, script := range scripts {
				report, err := engine.ExecuteScript(strings.NewReader(script.Text))
				if err != nil {
					return err
				}
				for _, outcome := range report.Statements {
					if outcome.Error != "" {
						return fmt.Errorf("%s statement %d: %s", script.Name, outcome.Index, outcome.Error)
					}
				}
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				sink, err := db.OpenSink(ctx, out, a.s3())
				if err != nil {
					return err
				}
				if err := db.ExportCatalog(sink, engine.Catalog(), dialect); err != nil {
					sink.Close()
					return err
				}
				if err := sink.Close(); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%s✓ Exported %d table(s) to %s%s\n",
					SuccessColor, engine.Catalog().Len(), out, ResetColor)
				return nil
			}

			return db.ExportCatalog(w, engine.Catalog(), dialect)
		},
	}

	cmd.Flags().StringVarP(&dialectName, "dialect", "d", string(db.DialectMyDB), "DDL dialect (mydb, duckdb)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Destination file or s3:// URL (default: stdout)")
	cmd.Flags().StringVar(&gitURL, "git", "", "Also load the .sql files of this Git repository")
	cmd.Flags().StringVar(&ref, "ref", "", "Git branch or tag to check out (default: remote HEAD)")

	return cmd
}
