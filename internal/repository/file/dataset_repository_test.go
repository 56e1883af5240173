package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/housing-survey-dashboard/internal/infrastructure/ingest"
	"github.com/housing-survey-dashboard/internal/pkg/errors"
	"github.com/housing-survey-dashboard/internal/repository/file"
)

const sampleGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [31.33, 30.05]},
     "properties": {"المحافظة": "1", "عدد_العمارات": 2, "عدد_الأدوار": 5, "عدد_الوحدات_بالدور": 4}},
    {"type": "Feature", "geometry": null, "properties": {"المحافظة": 35}}
  ]
}`

func newIngester() *ingest.Adapter {
	return ingest.NewAdapter(32636, 1<<20, zap.NewNop())
}

func TestDatasetRepository_LoadDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleGeoJSON), 0o600))

	repo := file.NewDatasetRepository(path, newIngester(), zap.NewNop())
	set, err := repo.LoadDefault(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, set.Len())
	assert.Equal(t, "القاهرة", set.Records[0].Governorate)
	assert.Equal(t, 40, set.Records[0].UnitsCount)
	assert.Equal(t, "جنوب سيناء", set.Records[1].Governorate)
}

func TestDatasetRepository_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		repo := file.NewDatasetRepository(filepath.Join(t.TempDir(), "nope.json"), newIngester(), zap.NewNop())
		_, err := repo.LoadDefault(context.Background())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "default.shp")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

		repo := file.NewDatasetRepository(path, newIngester(), zap.NewNop())
		_, err := repo.LoadDefault(context.Background())
		assert.ErrorIs(t, err, errors.ErrUnsupportedFormat)
	})
}
