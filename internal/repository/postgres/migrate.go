package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"go.uber.org/zap"
)

// Migrate применяет *.up.sql из fsys по порядку имён. Миграции идемпотентны,
// поэтому повторный запуск на существующей схеме ничего не меняет.
func (db *DB) Migrate(ctx context.Context, fsys fs.FS) error {
	files, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, name := range files {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		db.logger.Info("Migration applied", zap.String("file", name))
	}
	return nil
}
