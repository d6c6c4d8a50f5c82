package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/nickyhof/MyDB/db"
)

const (
	prompt          = "mydb> "
	continuePrompt  = "  ...> "
	maxHistory      = 1000
	shownHistory    = 20
	truncateColumns = 50
)

// CLI holds the interactive shell state
type CLI struct {
	ctx         context.Context
	engine      *db.Engine
	s3          *db.S3Config
	out         io.Writer
	errOut      io.Writer
	history     []string
	historyFile string
}

func newREPLCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive SQL shell",
		Long: `Start the interactive SQL shell.

Statements end with a semicolon and may span several lines. Lines starting
with a dot are shell commands; type .help to list them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, a)
		},
	}
}

func newCLI(cmd *cobra.Command, a *app) *CLI {
	return &CLI{
		ctx:         cmd.Context(),
		engine:      a.engine(),
		s3:          a.s3(),
		out:         cmd.OutOrStdout(),
		errOut:      cmd.ErrOrStderr(),
		history:     make([]string, 0),
		historyFile: historyPath(),
	}
}

func runREPL(cmd *cobra.Command, a *app) error {
	cli := newCLI(cmd, a)
	cli.loadHistory()
	defer cli.saveHistory()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		AutoComplete:    cli.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cli.out,
		Stderr:          cli.errOut,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	for _, entry := range cli.history {
		_ = rl.SaveHistory(entry)
	}

	cli.printBanner()

	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt(prompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if multiLineBuffer.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ".") {
			cli.addToHistory(strings.TrimSpace(line))
			if quit := cli.handleCommand(line); quit {
				break
			}
			continue
		}

		statement, complete := accumulate(&multiLineBuffer, line)
		if !complete {
			if multiLineBuffer.Len() > 0 {
				rl.SetPrompt(continuePrompt)
			}
			continue
		}
		rl.SetPrompt(prompt)

		cli.addToHistory(statement + ";")
		cli.execute(statement)
	}

	fmt.Fprintf(cli.out, "%sGoodbye!%s\n", SuccessColor, ResetColor)
	return nil
}

// accumulate appends line to buffer and returns the buffered statement,
// without comments or its semicolon, once the input outside -- comments ends
// with one. Lines are kept apart so a comment never reaches the next line.
// Blank and comment-only input never completes a statement.
func accumulate(buffer *strings.Builder, line string) (string, bool) {
	if strings.TrimSpace(line) == "" {
		return "", false
	}

	buffer.WriteString(line)

	code := strings.TrimSpace(db.StripComments(buffer.String()))
	if code == "" {
		buffer.Reset()
		return "", false
	}
	if !strings.HasSuffix(code, ";") {
		buffer.WriteString("\n")
		return "", false
	}
	buffer.Reset()

	statement := strings.TrimSpace(strings.TrimSuffix(code, ";"))
	if statement == "" {
		return "", false
	}
	return statement, true
}

func (cli *CLI) printBanner() {
	fmt.Fprintln(cli.out)
	bannerWidth := 39 // inner width of the banner box
	versionLine := fmt.Sprintf("MyDB v%s", Version)
	padding := bannerWidth - len(versionLine) - 2 // -2 for "  " margins
	if padding < 0 {
		padding = 0
	}
	leftPad := padding / 2
	rightPad := padding - leftPad

	fmt.Fprintf(cli.out, "%s%s╔═══════════════════════════════════════╗%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Fprintf(cli.out, "%s%s║ %*s%s%*s ║%s\n", BoldColor, PromptColor, leftPad, "", versionLine, rightPad, "", ResetColor)
	fmt.Fprintf(cli.out, "%s%s║   In-memory SQL catalog shell         ║%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Fprintf(cli.out, "%s%s╚═══════════════════════════════════════╝%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Fprintln(cli.out)
	fmt.Fprintln(cli.out, "Type .help for commands, .quit to exit")
	fmt.Fprintln(cli.out)
}

func (cli *CLI) completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, keyword := range []string{"CREATE TABLE", "INSERT INTO", "SELECT"} {
		items = append(items, readline.PcItem(keyword))
	}
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".describe"),
		readline.PcItem(".schema"),
		readline.PcItem(".import"),
		readline.PcItem(".history"),
		readline.PcItem(".clear"),
		readline.PcItem(".version"),
		readline.PcItem(".quit"),
	)
	return readline.NewPrefixCompleter(items...)
}

func (cli *CLI) execute(statement string) {
	result, err := cli.engine.Execute(statement)
	if err != nil {
		cli.printError(err)
		return
	}
	result.Render(cli.out)
}

func (cli *CLI) printError(err error) {
	fmt.Fprintf(cli.errOut, "%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
}

// handleCommand runs a dot command and reports whether the shell should exit.
func (cli *CLI) handleCommand(input string) bool {
	parts := strings.Fields(strings.TrimSpace(input))
	if len(parts) == 0 {
		return false
	}

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit", ".q":
		return true

	case ".help", ".h", ".?":
		cli.printHelp()

	case ".tables":
		cli.engine.Tables().Render(cli.out)

	case ".describe", ".desc":
		if len(parts) < 2 {
			fmt.Fprintf(cli.errOut, "%s✗ Usage: .describe <table>%s\n", ErrorColor, ResetColor)
			break
		}
		result, err := cli.engine.Describe(strings.ToUpper(parts[1]))
		if err != nil {
			cli.printError(err)
			break
		}
		result.Render(cli.out)

	case ".schema":
		dialect := db.DialectMyDB
		if len(parts) > 1 {
			d, err := db.ParseDialect(parts[1])
			if err != nil {
				cli.printError(err)
				break
			}
			dialect = d
		}
		if err := db.ExportCatalog(cli.out, cli.engine.Catalog(), dialect); err != nil {
			cli.printError(err)
		}

	case ".import":
		if len(parts) < 2 {
			fmt.Fprintf(cli.errOut, "%s✗ Usage: .import <file.sql|http(s)://...|s3://...>%s\n", ErrorColor, ResetColor)
			break
		}
		if err := cli.importSource(parts[1]); err != nil {
			cli.printError(err)
		}

	case ".clear", ".cls":
		fmt.Fprint(cli.out, "\033[H\033[2J")

	case ".history":
		cli.printHistory()

	case ".version":
		fmt.Fprintf(cli.out, "MyDB version %s\n", Version)

	default:
		fmt.Fprintf(cli.errOut, "%s✗ Unknown command: %s (type .help for commands)%s\n", ErrorColor, parts[0], ResetColor)
	}

	return false
}

func (cli *CLI) printHelp() {
	fmt.Fprintln(cli.out)
	fmt.Fprintf(cli.out, "%s%sSpecial Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Fprintln(cli.out, "  .help, .h          Show this help message")
	fmt.Fprintln(cli.out, "  .quit, .exit       Exit the shell")
	fmt.Fprintln(cli.out, "  .tables            List all tables")
	fmt.Fprintln(cli.out, "  .describe <table>  Show the columns of a table")
	fmt.Fprintln(cli.out, "  .schema [dialect]  Print the catalog as DDL (mydb, duckdb)")
	fmt.Fprintln(cli.out, "  .import <source>   Execute SQL statements from a file, URL or s3:// object")
	fmt.Fprintln(cli.out, "  .history           Show command history")
	fmt.Fprintln(cli.out, "  .clear             Clear the screen")
	fmt.Fprintln(cli.out, "  .version           Show version info")
	fmt.Fprintln(cli.out)
	fmt.Fprintf(cli.out, "%s%sSQL Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Fprintln(cli.out, "  CREATE TABLE <table> (<column> <type>, ...);")
	fmt.Fprintln(cli.out)
	fmt.Fprintf(cli.out, "%s%sTypes:%s NUMBER[(p[,s])], VARCHAR[(n)], DATE\n", BoldColor, PromptColor, ResetColor)
	fmt.Fprintln(cli.out)
}

func (cli *CLI) addToHistory(cmd string) {
	// Don't add duplicates of the last command
	if len(cli.history) > 0 && cli.history[len(cli.history)-1] == cmd {
		return
	}
	cli.history = append(cli.history, cmd)

	if len(cli.history) > maxHistory {
		cli.history = cli.history[len(cli.history)-maxHistory:]
	}
}

func (cli *CLI) printHistory() {
	if len(cli.history) == 0 {
		fmt.Fprintln(cli.out, "No command history")
		return
	}

	start := 0
	if len(cli.history) > shownHistory {
		start = len(cli.history) - shownHistory
	}

	for i := start; i < len(cli.history); i++ {
		fmt.Fprintf(cli.out, "  %3d  %s\n", i+1, cli.history[i])
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mydb_history")
}

func (cli *CLI) loadHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Open(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		cli.addToHistory(scanner.Text())
	}
}

func (cli *CLI) saveHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Create(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	for _, entry := range cli.history {
		_, _ = file.WriteString(entry + "\n")
	}
}

// importSource reads and executes SQL statements from a local file, URL or
// s3:// object.
func (cli *CLI) importSource(source string) error {
	script, err := db.ReadSource(cli.ctx, source, cli.s3)
	if err != nil {
		return err
	}

	report, err := cli.engine.ExecuteScript(strings.NewReader(script.Text))
	if err != nil {
		return err
	}

	for _, outcome := range report.Statements {
		stmt := truncate(outcome.SQL, truncateColumns)
		if outcome.Error != "" {
			fmt.Fprintf(cli.out, "%s[%d] ✗ %s%s\n", ErrorColor, outcome.Index, stmt, ResetColor)
			fmt.Fprintf(cli.out, "      Error: %s\n", outcome.Error)
			continue
		}

		switch r := outcome.Result.(type) {
		case db.CommitResult:
			detail := ""
			if r.TablesCreated > 0 {
				detail = fmt.Sprintf(" (%d table created)", r.TablesCreated)
			}
			fmt.Fprintf(cli.out, "%s[%d] ✓ %s%s%s\n", SuccessColor, outcome.Index, stmt, detail, ResetColor)
		case db.QueryResult:
			fmt.Fprintf(cli.out, "%s[%d] ✓ %s (%d rows)%s\n", SuccessColor, outcome.Index, stmt, r.RecordsRead, ResetColor)
		default:
			fmt.Fprintf(cli.out, "%s[%d] ✓ %s%s\n", SuccessColor, outcome.Index, stmt, ResetColor)
		}
	}

	fmt.Fprintf(cli.out, "\n%s✓ Import complete: %d succeeded, %d failed%s\n",
		SuccessColor, report.Succeeded, report.Failed, ResetColor)

	return nil
}

// truncate shortens a string to limit bytes with ellipsis
func truncate(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
