package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/bizops/backend/internal/infrastructure/config"
	"github.com/bizops/backend/internal/infrastructure/logger"
	"github.com/bizops/backend/internal/infrastructure/migration"
)

const defaultMigrationsDir = "migrations"

func main() {
	var (
		dir      string
		logLevel string
	)
	flag.StringVar(&dir, "path", "", "migrations directory (default: ./migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command, rest := args[0], args[1:]

	log, err := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init:", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	dir, err = filepath.Abs(resolveDir(dir))
	if err != nil {
		log.Fatal("resolve migrations directory", zap.Error(err))
	}

	// create and list only touch the filesystem.
	switch command {
	case "create":
		runCreate(log, dir, rest)
		return
	case "list":
		runList(log, dir)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("ping database", zap.Error(err))
	}

	mg, err := migration.New(db, dir, log)
	if err != nil {
		log.Fatal("init migrator", zap.Error(err))
	}
	defer mg.Close()

	if err := runSchemaCommand(log, mg, command, rest); err != nil {
		log.Fatal("migration failed", zap.String("command", command), zap.Error(err))
	}
}

func runCreate(log *zap.Logger, dir string, args []string) {
	if len(args) == 0 {
		log.Fatal("usage: migrate create <name> [description]")
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		log.Fatal("create migration", zap.Error(err))
	}
	log.Info("migration created",
		zap.String("version", mf.Version),
		zap.String("up", mf.UpPath),
		zap.String("down", mf.DownPath),
	)
}

func runList(log *zap.Logger, dir string) {
	names, err := migration.ListMigrations(dir)
	if err != nil {
		log.Fatal("list migrations", zap.Error(err))
	}
	if len(names) == 0 {
		log.Info("no migrations found", zap.String("dir", dir))
		return
	}
	for _, n := range names {
		fmt.Println(n)
	}
}

func runSchemaCommand(log *zap.Logger, mg *migration.Migrator, command string, args []string) error {
	switch command {
	case "up":
		return mg.Up()

	case "down":
		return mg.Down()

	case "step":
		n, err := intArg(args, "step count")
		if err != nil {
			return err
		}
		return mg.Steps(n)

	case "goto":
		v, err := intArg(args, "target version")
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("target version must not be negative")
		}
		return mg.GoTo(uint(v))

	case "version":
		v, dirty, err := mg.Version()
		if err != nil {
			return err
		}
		if v == 0 {
			log.Info("no migrations applied")
		} else {
			log.Info("schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		}
		return nil

	case "force":
		v, err := intArg(args, "version")
		if err != nil {
			return err
		}
		return mg.Force(v)

	case "drop":
		if len(args) == 0 || (args[0] != "-confirm" && args[0] != "--confirm") {
			return fmt.Errorf("refusing to drop without -confirm")
		}
		return mg.Drop()
	}

	printUsage()
	return fmt.Errorf("unknown command %q", command)
}

func intArg(args []string, what string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s required", what)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[0])
	}
	return n, nil
}

// resolveDir falls back to the migrations directory shipped next to the
// binary when the working directory has none.
func resolveDir(dir string) string {
	if dir != "" {
		return dir
	}
	if _, err := os.Stat(defaultMigrationsDir); err == nil {
		return defaultMigrationsDir
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsDir)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return defaultMigrationsDir
}

func printUsage() {
	fmt.Println(`bizops schema migration tool

usage: migrate [flags] <command> [arguments]

commands:
  up                    apply all pending migrations
  down                  roll back all migrations
  step <n>              apply n migrations (negative rolls back)
  goto <version>        migrate the schema to a specific version
  version               print the current schema version
  force <version>       overwrite the recorded version (repair only)
  drop -confirm         drop every database object
  create <name> [desc]  write a new up/down migration pair
  list                  print migration pairs in apply order

flags:
  -path string          migrations directory (default: ./migrations)
  -log-level string     debug, info, warn, error (default: info)

database settings come from config.toml or BIZOPS_DATABASE_* environment
variables (HOST, PORT, USER, PASSWORD, DBNAME, SSLMODE).`)
}
