package testhelpers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// InsertProject добавляет проект с сырыми атрибутами анкеты.
// wkt может быть пустым - тогда проект без геометрии.
func InsertProject(ctx context.Context, db *sql.DB, properties map[string]interface{}, wkt string, srid int) (int64, error) {
	props, err := json.Marshal(properties)
	if err != nil {
		return 0, fmt.Errorf("marshal properties: %w", err)
	}

	var geom sql.NullString
	if wkt != "" {
		geom = sql.NullString{String: wkt, Valid: true}
	}

	var id int64
	err = db.QueryRowContext(ctx, `
		INSERT INTO housing_projects (properties, geom)
		VALUES ($1::jsonb, CASE WHEN $2::text IS NULL THEN NULL ELSE ST_GeomFromText($2::text, $3::int) END)
		RETURNING id
	`, string(props), geom, srid).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert project: %w", err)
	}
	return id, nil
}
