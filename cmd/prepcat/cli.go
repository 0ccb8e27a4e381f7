package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/prepcat"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Catalog prepcat.CatalogService
	Search  prepcat.SearchService
	Views   prepcat.ViewService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Data      string `env:"PREPCAT_DATA" default:"data" help:"Directory holding the catalog files"`
	Store     string `env:"PREPCAT_VIEWS" default:"memory" enum:"memory,sqlite,badger" help:"View counter backend (memory, sqlite, badger)"`
	DB        string `env:"PREPCAT_DB" default:":memory:" help:"SQLite database path for the sqlite backend"`
	BadgerDir string `env:"PREPCAT_BADGER_DIR" name:"badger-dir" default:"views.badger" help:"Store directory for the badger backend"`
	Remote    string `env:"PREPCAT_REMOTE" help:"Base URL of a running server to use instead of local data"`
	Verbose   bool   `short:"v" help:"Enable debug logging"`

	Serve    ServeCmd    `cmd:"" help:"Serve the API and static files"`
	Search   SearchCmd   `cmd:"" help:"Search topics and papers"`
	Subjects SubjectsCmd `cmd:"" help:"List subjects"`
	Topics   TopicsCmd   `cmd:"" help:"List topics of a subject"`
	Years    YearsCmd    `cmd:"" help:"List exam years"`
	Papers   PapersCmd   `cmd:"" help:"List papers of an exam year"`
	Views    ViewsCmd    `cmd:"" name:"views" help:"Show or record item views"`
	Browse   BrowseCmd   `cmd:"" help:"Browse the catalog interactively"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr      string  `env:"PREPCAT_ADDR" default:":3000" help:"Listen address"`
	Public    string  `env:"PREPCAT_PUBLIC" default:"public" help:"Static files directory (ignored if missing)"`
	ViewRPS   float64 `env:"PREPCAT_VIEW_RPS" default:"0" name:"view-rps" help:"Per-client view recording rate limit (0 disables)"`
	ViewBurst int     `default:"5" name:"view-burst" help:"Per-client view recording burst"`

	TrustedProxies []string `env:"PREPCAT_TRUSTED_PROXIES" name:"trusted-proxy" sep:"," help:"Proxy addresses or CIDRs whose X-Forwarded-For is honored"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query []string `arg:"" help:"Search text"`
}

// SubjectsCmd is the "subjects" subcommand.
type SubjectsCmd struct{}

// TopicsCmd is the "topics" subcommand.
type TopicsCmd struct {
	Slug string `arg:"" help:"Subject slug"`
}

// YearsCmd is the "years" subcommand.
type YearsCmd struct{}

// PapersCmd is the "papers" subcommand.
type PapersCmd struct {
	Year int `arg:"" help:"Exam year"`
}

// ViewsCmd is the "views" subcommand.
type ViewsCmd struct {
	ID     string `arg:"" help:"Topic or paper id"`
	Record bool   `short:"r" help:"Record a view before printing the count"`
}

// BrowseCmd is the "browse" subcommand.
type BrowseCmd struct{}
