package database

import (
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var schemaMigrations embed.FS

// Migrate applies every pending embedded migration to the database.
func Migrate(db *sqlx.DB) error {
	src, err := iofs.New(schemaMigrations, "migrations")
	if err != nil {
		return err
	}

	dst, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return err
	}

	migrator, err := migrate.NewWithInstance("iofs", src, "postgres", dst)
	if err != nil {
		return err
	}

	err = migrator.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		// schema already current
	case err != nil:
		return err
	}
	return nil
}
