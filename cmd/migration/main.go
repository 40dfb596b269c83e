package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const usage = `usage: migration <command> [args]

commands:
  up              apply all pending migrations
  down [n]        roll back n migrations (default 1)
  version         print the current schema version
  force <v>       mark the schema as version v without running migrations
  goto <v>        migrate up or down to version v
`

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(strings.ToLower(os.Args[1]), os.Args[2:]); err != nil {
		log.Fatal(err)
	}
}

func run(command string, args []string) error {
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	dir, err := migrationsDir()
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+filepath.ToSlash(dir), dbURL)
	if err != nil {
		return fmt.Errorf("open migrator: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Printf("close migrator: source=%v db=%v", srcErr, dbErr)
		}
	}()

	switch command {
	case "up":
		if err := quietNoChange(m.Up()); err != nil {
			return err
		}
		log.Printf("migrations applied from %s", dir)
	case "down":
		steps := 1
		if len(args) > 0 {
			steps, err = strconv.Atoi(args[0])
			if err != nil || steps < 1 {
				return fmt.Errorf("down: step count must be a positive integer, got %q", args[0])
			}
		}
		if err := quietNoChange(m.Steps(-steps)); err != nil {
			return err
		}
		log.Printf("rolled back %d migration(s)", steps)
	case "version":
		version, dirty, err := m.Version()
		switch {
		case errors.Is(err, migrate.ErrNilVersion):
			fmt.Println("no migrations applied")
		case err != nil:
			return fmt.Errorf("read version: %w", err)
		default:
			fmt.Printf("%d (dirty=%t)\n", version, dirty)
		}
	case "force":
		v, err := versionArg("force", args)
		if err != nil {
			return err
		}
		if err := m.Force(int(v)); err != nil {
			return fmt.Errorf("force %d: %w", v, err)
		}
		log.Printf("schema version forced to %d", v)
	case "goto":
		v, err := versionArg("goto", args)
		if err != nil {
			return err
		}
		if err := quietNoChange(m.Migrate(uint(v))); err != nil {
			return err
		}
		log.Printf("schema migrated to version %d", v)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	return nil
}

func versionArg(command string, args []string) (uint64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s: version argument is required", command)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid version %q", command, args[0])
	}
	return v, nil
}

func quietNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		log.Printf("no schema changes")
		return nil
	}
	return err
}

// migrationsDir prefers MIGRATIONS_DIR, then the repo layout, then the
// container image layout.
func migrationsDir() (string, error) {
	for _, dir := range []string{strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")), "db/migrations", "/app/db/migrations"} {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", errors.New("no migrations directory found, set MIGRATIONS_DIR")
}
