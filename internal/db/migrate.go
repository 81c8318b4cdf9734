package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

const migrationsDir = "migrations"

//go:embed migrations/*.up.sql
var migrations embed.FS

// Migrate применяет новые миграции и возвращает имена примененных.
// golang-migrate закрывает переданное соединение, поэтому Migrate
// открывает свое по dsn, а не берет общий пул.
func Migrate(ctx context.Context, dsn string) ([]string, error) {
	names, err := migrationNames(migrations)
	if err != nil {
		return nil, err
	}

	source, err := iofs.New(migrations, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	driver, err := pgxmigrate.WithInstance(conn, &pgxmigrate.Config{})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to init migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "pgx5", driver)
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("failed to init migrations: %w", err)
	}
	defer m.Close()

	before, err := currentVersion(m)
	if err != nil {
		return nil, err
	}

	if err := up(ctx, m); err != nil {
		var dirty migrate.ErrDirty
		if errors.As(err, &dirty) {
			return nil, fmt.Errorf("database is dirty at version %d, fix it and force the version: %w", dirty.Version, err)
		}
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	after, err := currentVersion(m)
	if err != nil {
		return nil, err
	}
	return appliedBetween(names, before, after), nil
}

// up прерывает миграции после текущей при отмене ctx
func up(ctx context.Context, m *migrate.Migrate) error {
	done := make(chan error, 1)
	go func() { done <- m.Up() }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		m.GracefulStop <- true
		err = <-done
		if err == nil || errors.Is(err, migrate.ErrNoChange) {
			err = ctx.Err()
		}
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func currentVersion(m *migrate.Migrate) (uint, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		return 0, fmt.Errorf("database is dirty at version %d, fix it and force the version", version)
	}
	return version, nil
}

// migrationNames возвращает имена миграций без суффикса .up.sql по порядку
func migrationNames(fsys fs.FS) ([]string, error) {
	files, err := fs.Glob(fsys, path.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for _, file := range files {
		names = append(names, strings.TrimSuffix(path.Base(file), ".up.sql"))
	}
	sort.Strings(names)
	return names, nil
}

// appliedBetween выбирает миграции с версией в (before, after]
func appliedBetween(names []string, before, after uint) []string {
	var applied []string
	for _, name := range names {
		prefix, _, _ := strings.Cut(name, "_")
		version, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			continue
		}
		if uint(version) > before && uint(version) <= after {
			applied = append(applied, name)
		}
	}
	return applied
}
