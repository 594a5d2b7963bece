package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/schedsense/internal/version"
)

// Migration flow:
// 1. preMigrate: if the DB is uninitialized, apply LATEST.sql and stamp
//    the current schema version.
// 2. prod mode: apply incremental migrations between the stored schema
//    version and the target version, in lexicographic order.
//
// Migration files live at store/migration/{driver}/{version}/NN__description.sql;
// LATEST.sql holds the full schema for fresh installations.

//go:embed migration
var migrationFS embed.FS

const (
	// MigrateFileNameSplit is the split character between the patch version
	// and the description in the migration file name, e.g. "1__create_table.sql".
	MigrateFileNameSplit = "__"
	// LatestSchemaFileName is the full schema applied to fresh installations.
	LatestSchemaFileName = "LATEST.sql"

	defaultSchemaVersion = "0.0.0"

	modeProd = "prod"
)

func getSchemaVersionOrDefault(schemaVersion string) string {
	if schemaVersion == "" {
		return defaultSchemaVersion
	}
	return schemaVersion
}

// shouldApplyMigration determines if a migration file should be applied:
// its version must lie above the current DB version and at or below the
// target version.
func shouldApplyMigration(fileVersion, currentDBVersion, targetVersion string) bool {
	currentDBVersionSafe := getSchemaVersionOrDefault(currentDBVersion)
	return version.IsVersionGreaterThan(fileVersion, currentDBVersionSafe) &&
		version.IsVersionGreaterOrEqualThan(targetVersion, fileVersion)
}

// validateMigrationFileName checks the "NN__description.sql" convention.
func validateMigrationFileName(filename string) error {
	if !strings.Contains(filename, MigrateFileNameSplit) {
		return errors.Errorf("invalid migration filename format (missing %s): %s", MigrateFileNameSplit, filename)
	}
	parts := strings.Split(filename, MigrateFileNameSplit)
	if len(parts) < 2 {
		return errors.Errorf("invalid migration filename format: %s", filename)
	}
	if _, err := strconv.Atoi(parts[0]); err != nil {
		return errors.Errorf("migration filename must start with a number: %s", filename)
	}
	return nil
}

// Migrate migrates the database schema to the latest version.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.preMigrate(ctx); err != nil {
		return errors.Wrap(err, "failed to pre-migrate")
	}

	if s.profile.Mode != modeProd {
		return nil
	}

	currentSchemaVersion, err := s.driver.GetSchemaVersion(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get current schema version")
	}
	targetVersion := version.GetSchemaVersion(version.GetCurrentVersion(s.profile.Mode))

	if !version.IsVersionGreaterThan(targetVersion, getSchemaVersionOrDefault(currentSchemaVersion)) {
		return nil
	}

	filePaths, err := s.collectMigrationFiles(currentSchemaVersion, targetVersion)
	if err != nil {
		return err
	}

	for _, filePath := range filePaths {
		buf, err := migrationFS.ReadFile(filePath)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration file %s", filePath)
		}
		if err := s.execute(ctx, string(buf)); err != nil {
			return errors.Wrapf(err, "failed to apply migration %s", filePath)
		}
		slog.Info("applied migration", slog.String("file", filePath))
	}

	if err := s.driver.UpsertSchemaVersion(ctx, targetVersion); err != nil {
		return errors.Wrap(err, "failed to upsert schema version")
	}
	return nil
}

// preMigrate initializes a fresh database from LATEST.sql.
func (s *Store) preMigrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}
	if initialized {
		return nil
	}

	filePath := s.getMigrationBasePath() + LatestSchemaFileName
	buf, err := migrationFS.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file %s", filePath)
	}
	if err := s.execute(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}

	schemaVersion := version.GetSchemaVersion(version.GetCurrentVersion(s.profile.Mode))
	if err := s.driver.UpsertSchemaVersion(ctx, schemaVersion); err != nil {
		return errors.Wrap(err, "failed to stamp schema version")
	}
	slog.Info("database initialized", slog.String("schema_version", schemaVersion))
	return nil
}

func (s *Store) getMigrationBasePath() string {
	return fmt.Sprintf("migration/%s/", s.profile.Driver)
}

// collectMigrationFiles gathers the incremental migration files between
// the current and target schema versions, sorted lexicographically.
func (s *Store) collectMigrationFiles(currentVersion, targetVersion string) ([]string, error) {
	basePath := s.getMigrationBasePath()
	var filePaths []string

	err := fs.WalkDir(migrationFS, strings.TrimSuffix(basePath, "/"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() == LatestSchemaFileName {
			return nil
		}
		if err := validateMigrationFileName(d.Name()); err != nil {
			return err
		}
		fileVersion := filepath.Base(filepath.Dir(path)) + ".0"
		if shouldApplyMigration(fileVersion, currentVersion, targetVersion) {
			filePaths = append(filePaths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect migration files")
	}

	sort.Strings(filePaths)
	return filePaths, nil
}

func (s *Store) execute(ctx context.Context, statement string) error {
	db := s.driver.GetDB()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, statement); err != nil {
		return errors.Wrap(err, "failed to execute statement")
	}
	return tx.Commit()
}
