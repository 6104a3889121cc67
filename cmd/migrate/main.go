package main

import (
	"errors"
	"flag"
	"log"

	"art_contest_admin/internal/pkg/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	direction := flag.String("cmd", "up", "up / down / version / force")
	steps := flag.Int("steps", 0, "number of steps for down (0 = one step)")
	version := flag.Int("version", -1, "version for force")
	source := flag.String("source", "file://migrations", "migration source")
	flag.Parse()

	config.LoadConfig()

	m, err := migrate.New(*source, config.GlobalConfig.Database.URL())
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	switch *direction {
	case "up":
		err = m.Up()
	case "down":
		n := *steps
		if n <= 0 {
			n = 1
		}
		err = m.Steps(-n)
	case "force":
		if *version < 0 {
			log.Fatal("-version is required for force")
		}
		err = m.Force(*version)
	case "version":
		v, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			log.Fatal(verr)
		}
		log.Printf("version=%d dirty=%v", v, dirty)
		return
	default:
		log.Fatalf("unknown command %q", *direction)
	}

	var dirty migrate.ErrDirty
	switch {
	case err == nil, errors.Is(err, migrate.ErrNoChange):
		log.Printf("Migration %s successful", *direction)
	case errors.As(err, &dirty):
		// dirty 状态需要人工确认后再 force
		log.Fatalf("database is dirty at version %d, fix it and run -cmd force -version %d", dirty.Version, dirty.Version-1)
	default:
		log.Fatal(err)
	}
}
