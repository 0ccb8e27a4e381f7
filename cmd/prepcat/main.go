package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/prepcat"
	"github.com/fwojciec/prepcat/badger"
	"github.com/fwojciec/prepcat/catalog"
	"github.com/fwojciec/prepcat/fs"
	phttp "github.com/fwojciec/prepcat/http"
	"github.com/fwojciec/prepcat/memory"
	pslog "github.com/fwojciec/prepcat/slog"
	"github.com/fwojciec/prepcat/sqlite"
)

// Circuit breaker settings for remote mode.
const (
	remoteBreakerThreshold = 5
	remoteBreakerTimeout   = 30 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Input for interactive commands. Set before calling Run().
	Stdin io.Reader

	// SQLite database used when views are stored in sqlite.
	DB *sqlite.DB

	// Badger store used when views are stored in badger.
	Badger *badger.ViewService

	// Services for end-to-end testing.
	CatalogService prepcat.CatalogService
	SearchService  prepcat.SearchService
	ViewService    prepcat.ViewService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Stdin: os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	if m.Badger != nil {
		errs = append(errs, m.Badger.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("prepcat"),
		kong.Description("Browse and search study topics and previous-year exam papers."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'prepcat --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if cli.Remote != "" {
		client := phttp.NewClient(cli.Remote,
			phttp.WithRetryDelays(phttp.DefaultRetryDelays()...),
			phttp.WithCircuitBreaker("prepcat-remote", remoteBreakerThreshold, remoteBreakerTimeout),
		)
		m.CatalogService = client
		m.SearchService = client
		m.ViewService = client
	} else {
		if err := m.openLocal(ctx, cli, deps.Logger, stderr); err != nil {
			return err
		}
		defer m.Close()
	}

	deps.Catalog = m.CatalogService
	deps.Search = pslog.NewLoggingSearchService(m.SearchService, deps.Logger)
	deps.Views = pslog.NewLoggingViewService(m.ViewService, deps.Logger)

	return kongCtx.Run(deps)
}

// openLocal loads the catalog from disk and opens the view counter backend.
func (m *Main) openLocal(ctx context.Context, cli *CLI, logger *slog.Logger, stderr io.Writer) error {
	src := pslog.NewLoggingCatalogSource(fs.NewCatalogSource(cli.Data), logger)
	c, err := catalog.Load(ctx, src)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Set PREPCAT_DATA to the directory holding subjects.json and previous-years.json\n")
		return fmt.Errorf("failed to load catalog from %q: %w", cli.Data, err)
	}
	m.CatalogService = c
	m.SearchService = catalog.NewIndex(c)

	switch cli.Store {
	case "sqlite":
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(ctx); err != nil {
			fmt.Fprintf(stderr, "Hint: Set PREPCAT_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		m.ViewService = sqlite.NewViewService(m.DB)
	case "badger":
		svc, err := badger.Open(cli.BadgerDir)
		if err != nil {
			fmt.Fprintf(stderr, "Hint: Set PREPCAT_BADGER_DIR to use a different store directory\n")
			return fmt.Errorf("failed to open view store at %q: %w", cli.BadgerDir, err)
		}
		m.Badger = svc
		m.ViewService = svc
	default:
		m.ViewService = memory.NewViewService()
	}
	return nil
}
