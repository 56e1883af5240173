package normalizer_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/housing-survey-dashboard/internal/domain"
	"github.com/housing-survey-dashboard/internal/normalizer"
)

func surveyTable(rows ...[]interface{}) domain.RawTable {
	table := domain.RawTable{
		Columns: []string{
			"المحافظة",
			"المدينة_المركز",
			"اسم_الموقع",
			"نوع_الاسكان",
			"عدد_العمارات",
			"عدد_الأدوار",
			"عدد_الوحدات_بالدور",
			"عدد_الوحدات_الاجمالي",
		},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, domain.RawRow{Values: r})
	}
	return table
}

func TestNormalize_UnitsInvariant(t *testing.T) {
	table := surveyTable(
		[]interface{}{"1", "مدينة نصر", "مشروع أ", "اقتصادي", "10", "5", "4", "999"},
		[]interface{}{2.0, "العامرية", "مشروع ب", "متوسط", 3.0, 6.0, 2.0, nil},
		[]interface{}{"14", "أكتوبر", "مشروع ج", "اقتصادي", "abc", "5", "4", "20"},
	)

	set := normalizer.Normalize(table)
	require.Equal(t, 3, set.Len())

	for _, r := range set.Records {
		assert.Equal(t, r.BuildingsCount*r.FloorsCount*r.UnitsPerFloor, r.UnitsCount, "record %d", r.ID)
	}
	assert.Equal(t, 200, set.Records[0].UnitsCount, "raw total must be ignored")
	assert.Equal(t, 36, set.Records[1].UnitsCount)
	assert.Equal(t, 0, set.Records[2].UnitsCount)

	t.Run("double normalization keeps the invariant", func(t *testing.T) {
		again := normalizer.Renormalize(set)
		require.Equal(t, set.Len(), again.Len())
		for i := range set.Records {
			assert.Equal(t, set.Records[i], again.Records[i])
		}
	})
}

func TestNormalize_Factors(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  int
	}{
		{"integer string", "7", 7},
		{"float string truncates", "7.9", 7},
		{"arabic-indic digits", "١٢", 12},
		{"float", 4.0, 4},
		{"int", 3, 3},
		{"empty", "", 0},
		{"null token", "nan", 0},
		{"garbage", "n/a", 0},
		{"negative", -5, 0},
		{"nan float", math.NaN(), 0},
		{"inf float", math.Inf(1), 0},
		{"nil", nil, 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := normalizer.Normalize(surveyTable(
				[]interface{}{"1", "x", "y", "z", tt.value, 2, 3, nil},
			))
			require.Equal(t, 1, set.Len())
			assert.Equal(t, tt.want, set.Records[0].BuildingsCount)
			assert.Equal(t, tt.want*6, set.Records[0].UnitsCount)
		})
	}
}

func TestNormalize_ZeroFactorYieldsZeroUnits(t *testing.T) {
	set := normalizer.Normalize(surveyTable(
		[]interface{}{"1", "x", "y", "z", "0", "12", "8", "96"},
	))
	assert.Equal(t, 0, set.Records[0].UnitsCount)
}

func TestNormalize_Governorate(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"code string", "1", "القاهرة"},
		{"code with .0", "1.0", "القاهرة"},
		{"float code", 1.0, "القاهرة"},
		{"padded", " 10 ", "الغربية"},
		{"south sinai", "35", "جنوب سيناء"},
		{"unknown passes through", "99", "99"},
		{"unknown with .0 keeps suffix", "99.0", "99.0"},
		{"double suffix is not a code", "1.0.0", "1.0.0"},
		{"name passes through", "القاهرة", "القاهرة"},
		{"missing", nil, domain.Unspecified},
		{"null token", "None", domain.Unspecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := normalizer.Normalize(surveyTable(
				[]interface{}{tt.value, "x", "y", "z", 1, 1, 1, nil},
			))
			assert.Equal(t, tt.want, set.Records[0].Governorate)

			again := normalizer.Renormalize(set)
			assert.Equal(t, tt.want, again.Records[0].Governorate)
		})
	}
}

func TestNormalizeWithStats_MissingAndDuplicateColumns(t *testing.T) {
	table := domain.RawTable{
		Columns: []string{"المحافظة", "الحالة_العامة_للمبني", "الحالة_العامة_للعمارات", " المدينة_المركز "},
		Rows: []domain.RawRow{
			{Values: []interface{}{"3", "جيدة", "متهالكة", "<NA>"}},
			{Values: []interface{}{"4"}},
		},
	}

	set, stats := normalizer.NormalizeWithStats(table)
	require.Equal(t, 2, set.Len())

	first := set.Records[0]
	assert.Equal(t, "بورسعيد", first.Governorate)
	assert.Equal(t, "جيدة", first.Condition, "first condition column wins")
	assert.Equal(t, domain.Unspecified, first.City)
	assert.Equal(t, domain.Unspecified, first.Owner)
	assert.Equal(t, 0, first.UnitsCount)

	short := set.Records[1]
	assert.Equal(t, "السويس", short.Governorate)
	assert.Equal(t, domain.Unspecified, short.Condition)

	assert.Equal(t, 2, stats.Rows)
	assert.Equal(t, []string{"الحالة_العامة_للعمارات"}, stats.DuplicateColumns)
	assert.Contains(t, stats.MissingColumns, domain.FieldOwner)
	assert.Contains(t, stats.MissingColumns, domain.FieldBuildingsCount)
	assert.NotContains(t, stats.MissingColumns, domain.FieldCity)
}

func TestNormalize_StableIDsAndGeometry(t *testing.T) {
	table := surveyTable(
		[]interface{}{"1", "a", "p1", "t", 1, 1, 1, nil},
		[]interface{}{"2", "b", "p2", "t", 1, 1, 1, nil},
	)
	table.Rows[1].Geometry = orb.Point{31.2, 30.0}

	set := normalizer.Normalize(table)
	assert.Equal(t, 0, set.Records[0].ID)
	assert.Equal(t, 1, set.Records[1].ID)
	assert.False(t, set.Records[0].HasGeometry())
	assert.Equal(t, orb.Point{31.2, 30.0}, set.Records[1].Geometry)
	assert.True(t, set.Has(domain.FieldUnitsCount))
}

func TestNormalize_TextIsTrimmedAndComposed(t *testing.T) {
	set := normalizer.Normalize(surveyTable(
		[]interface{}{"1", "  مدينة نصر\t", "Cafe\u0301", "z", 1, 1, 1, nil},
	))
	assert.Equal(t, "مدينة نصر", set.Records[0].City)
	assert.Equal(t, "Caf\u00e9", set.Records[0].ProjectName)
}
