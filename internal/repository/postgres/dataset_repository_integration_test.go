package postgres_test

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/suite"

	"github.com/housing-survey-dashboard/internal/domain"
	"github.com/housing-survey-dashboard/migrations"
	"github.com/housing-survey-dashboard/internal/repository/postgres"
	"github.com/housing-survey-dashboard/internal/repository/postgres/testhelpers"
)

// DatasetRepositoryTestSuite проверяет чтение набора из PostGIS
type DatasetRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   postgres.DatasetRepository
	ctx    context.Context
}

func (s *DatasetRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())
	s.ctx = context.Background()

	db := testhelpers.NewDBForTest(s.testDB.DB, s.testDB.Logger)
	s.Require().NoError(db.Migrate(s.ctx, migrations.FS), "Failed to apply migrations")

	var err error
	s.repo, err = testhelpers.NewDatasetRepositoryForTest(s.testDB.DB, s.testDB.Logger, "housing_projects")
	s.Require().NoError(err)
}

func (s *DatasetRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *DatasetRepositoryTestSuite) SetupTest() {
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

func (s *DatasetRepositoryTestSuite) TestLoadDefault_ReprojectsAndNormalizes() {
	db := s.testDB.DB.DB

	_, err := testhelpers.InsertProject(s.ctx, db, map[string]interface{}{
		"المحافظة":           "1",
		"عدد_العمارات":       2,
		"عدد_الأدوار":        5,
		"عدد_الوحدات_بالدور": 4,
	}, "POINT(500000 0)", 32636)
	s.Require().NoError(err)

	_, err = testhelpers.InsertProject(s.ctx, db, map[string]interface{}{
		"المحافظة": "14",
	}, "", 0)
	s.Require().NoError(err)

	set, err := s.repo.LoadDefault(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(2, set.Len())

	first := set.Records[0]
	s.Equal(0, first.ID)
	s.Equal("القاهرة", first.Governorate)
	s.Equal(40, first.UnitsCount)
	s.Require().NotNil(first.Geometry)
	b := first.Geometry.Bound()
	s.InDelta(33.0, b.Min[0], 1e-6)
	s.InDelta(0.0, b.Min[1], 1e-6)

	s.Equal("الجيزة", set.Records[1].Governorate)
	s.Nil(set.Records[1].Geometry)
}

func (s *DatasetRepositoryTestSuite) TestLoadDefault_EmptyTable() {
	set, err := s.repo.LoadDefault(s.ctx)
	s.Require().NoError(err)
	s.True(set.IsEmpty())
}

func (s *DatasetRepositoryTestSuite) TestReplaceAll_Roundtrip() {
	_, err := testhelpers.InsertProject(s.ctx, s.testDB.DB.DB, map[string]interface{}{"المحافظة": "2"}, "", 0)
	s.Require().NoError(err)

	set := domain.NewRecordSet([]domain.Record{
		{
			ID:             0,
			Governorate:    "الجيزة",
			City:           "الشيخ زايد",
			HousingType:    "اقتصادي",
			BuildingsCount: 3,
			FloorsCount:    4,
			UnitsPerFloor:  2,
			UnitsCount:     24,
			Geometry:       orb.Point{30.95, 29.95},
		},
		{ID: 1, Governorate: domain.Unspecified, City: domain.Unspecified},
	})

	n, err := s.repo.ReplaceAll(s.ctx, set)
	s.Require().NoError(err)
	s.Equal(2, n)

	loaded, err := s.repo.LoadDefault(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(2, loaded.Len(), "previous rows are replaced")

	first := loaded.Records[0]
	s.Equal("الجيزة", first.Governorate)
	s.Equal("الشيخ زايد", first.City)
	s.Equal(24, first.UnitsCount)
	s.Require().NotNil(first.Geometry)
	s.InDelta(30.95, first.Geometry.Bound().Min[0], 1e-9)

	s.Equal(1, loaded.Records[1].ID)
	s.Nil(loaded.Records[1].Geometry)
}

func TestDatasetRepositorySuite(t *testing.T) {
	suite.Run(t, new(DatasetRepositoryTestSuite))
}
