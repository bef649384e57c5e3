// Command migrate manages the schema of the optional SQLite preference database.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/boomerok2001-cpu/boomerbot/migrations"
)

var commands = map[string]func(db *sql.DB, dir string, opts ...goose.OptionsFunc) error{
	"up":      goose.Up,
	"up-one":  goose.UpByOne,
	"down":    goose.Down,
	"status":  goose.Status,
	"reset":   goose.Reset,
	"version": goose.Version,
}

func main() {
	dbPath := flag.String("db", os.Getenv("DATABASE_PATH"), "path to the sqlite preference database")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 || *dbPath == "" {
		usage()
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Error("open database", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		log.Error("set dialect", "error", err)
		os.Exit(1)
	}

	cmd := args[0]
	run, ok := commands[cmd]
	if !ok {
		log.Error("unknown command", "command", cmd)
		usage()
		os.Exit(1)
	}

	if err := run(db, "."); err != nil {
		log.Error("migration failed", "command", cmd, "path", *dbPath, "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: migrate [-db path] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "The database path defaults to $DATABASE_PATH.")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  up          Migrate to the latest version")
	fmt.Fprintln(os.Stderr, "  up-one      Migrate one version up")
	fmt.Fprintln(os.Stderr, "  down        Roll back one version")
	fmt.Fprintln(os.Stderr, "  status      Show migration status")
	fmt.Fprintln(os.Stderr, "  version     Show current version")
	fmt.Fprintln(os.Stderr, "  reset       Roll back all migrations")
}
