package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/fidata"
	"github.com/fwojciec/fidata/extract"
	"github.com/fwojciec/fidata/fs"
	"github.com/fwojciec/fidata/gemini"
	"github.com/fwojciec/fidata/inmem"
	"github.com/fwojciec/fidata/pdf"
	"github.com/fwojciec/fidata/s3"
	fislog "github.com/fwojciec/fidata/slog"
	"github.com/fwojciec/fidata/sqlite"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite index, opened only when a command needs it.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// browseCommands read records through the lookup services.
var browseCommands = map[string]bool{
	"features": true, "compare": true, "platforms": true, "versions": true,
	"issues": true, "defect": true, "releases": true, "search": true,
	"serve": true, "ask": true,
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("fidata"),
		kong.Description("Extract and browse FastIron feature, issue and release data."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'fidata --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.JSON = cli.JSON
	deps.Store = fs.NewDatasetStore(cli.DataDir)
	defer m.Close()

	switch cmd {
	case "extract":
		deps.Runner = &extract.Runner{
			Pages: fislog.NewLoggingPageReader(&fs.DispatchReader{
				PDF:  pdf.NewReader(),
				Text: fs.NewTextReader(),
			}, deps.Logger),
			Concurrency: cli.Extract.Concurrency,
		}

	case "index":
		path := cli.DB
		if path == "" {
			path = filepath.Join(cli.DataDir, DefaultDBName)
		}
		if err := m.openDB(path, stderr); err != nil {
			return err
		}
		deps.Indexer = sqlite.NewIndexer(m.DB)

	case "publish":
		pub, err := s3.NewPublisher(ctx, cli.Publish.Bucket, cli.Publish.Prefix, cli.Publish.Region, cli.Publish.Endpoint)
		if err != nil {
			return fmt.Errorf("failed to create publisher: %w", err)
		}
		deps.Publisher = pub
	}

	if browseCommands[cmd] {
		if err := m.wireServices(deps, cli.DB); err != nil {
			return err
		}
	}

	if cmd == "ask" {
		if cli.Ask.APIKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cli.Ask.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		asker := gemini.NewAsker(client, deps.Issues)
		if counter, err := gemini.NewTokenCounter(tokenizerModel); err == nil {
			asker.Counter = counter
		} else {
			deps.Logger.Warn("token counting disabled", "err", err)
		}
		deps.Asker = asker
	}

	return kongCtx.Run(deps)
}

// DefaultDBName is the index file created in the data directory when no
// database path is configured.
const DefaultDBName = "fidata.db"

// tokenizerModel is used for token counting.
const tokenizerModel = "gemini-2.5-flash"

func (m *Main) openDB(path string, stderr io.Writer) error {
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set FIDATA_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return nil
}

// wireServices backs the lookup services with the SQLite index when dbPath is
// set and with the JSON datasets otherwise.
func (m *Main) wireServices(deps *Dependencies, dbPath string) error {
	var (
		features fidata.FeatureService
		issues   fidata.IssueService
		releases fidata.ReleaseService
		search   fidata.SearchService
	)

	if dbPath != "" {
		if err := m.openDB(dbPath, deps.Stderr); err != nil {
			return err
		}
		features = sqlite.NewFeatureService(m.DB)
		issues = sqlite.NewIssueService(m.DB)
		releases = sqlite.NewReleaseService(m.DB)
		search = sqlite.NewSearchService(m.DB)
	} else {
		d, err := deps.Store.Load(deps.Ctx)
		if err != nil {
			return fmt.Errorf("failed to load datasets: %w", err)
		}
		features = inmem.NewFeatureService(d)
		issues = inmem.NewIssueService(d)
		releases = inmem.NewReleaseService(d)
		search = inmem.NewSearchService(d)
	}

	deps.Features = features
	deps.Issues = fislog.NewLoggingIssueService(issues, deps.Logger)
	deps.Releases = releases
	deps.Search = fislog.NewLoggingSearchService(search, deps.Logger)
	return nil
}
