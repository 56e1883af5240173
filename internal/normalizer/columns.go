package normalizer

import (
	"sort"
	"strings"

	"github.com/housing-survey-dashboard/internal/domain"
)

// discardedTotal - исходный итог по единицам; не используется, units_count всегда выводится заново
const discardedTotal = "units_count_orig"

// ColumnMapping - переименование колонок анкеты в канонические поля.
// Две колонки состояния здания сводятся в одно поле condition, побеждает первая по порядку.
var ColumnMapping = map[string]string{
	"المحافظة":                 string(domain.FieldGovernorate),
	"المدينة_المركز":           string(domain.FieldCity),
	"اسم_الموقع":               string(domain.FieldProjectName),
	"الجهة_المالكة":            string(domain.FieldOwner),
	"نوع_الحيازة":              string(domain.FieldTenure),
	"عدد_العمارات":             string(domain.FieldBuildingsCount),
	"عدد_الوحدات_الاجمالي":     discardedTotal,
	"عدد_الوحدات_بالدور":       string(domain.FieldUnitsPerFloor),
	"عدد_الأدوار":              string(domain.FieldFloorsCount),
	"نوع_الاسكان":              string(domain.FieldHousingType),
	"الحالة_العامة_للمبني":     string(domain.FieldCondition),
	"الحالة_العامة_للعمارات":   string(domain.FieldCondition),
	"سنة_الانشاء":              string(domain.FieldConstructionYear),
	"القرارات_الصادرة_للمبني":  string(domain.FieldDecisions),
	"اتصال_المشروع_بالغاز":     string(domain.FieldGasConnection),
}

// nullTokens - строковые представления пропусков, которые приходят из pandas/Excel/JSON
var nullTokens = []string{"", "nan", "none", "null", "<na>", "nat"}

// sourceColumns - порядок колонок анкеты; при совпадении канонических имён побеждает более ранняя
var sourceColumns = []string{
	"المحافظة",
	"المدينة_المركز",
	"اسم_الموقع",
	"الجهة_المالكة",
	"نوع_الحيازة",
	"عدد_العمارات",
	"عدد_الوحدات_الاجمالي",
	"عدد_الوحدات_بالدور",
	"عدد_الأدوار",
	"نوع_الاسكان",
	"الحالة_العامة_للمبني",
	"الحالة_العامة_للعمارات",
	"سنة_الانشاء",
	"القرارات_الصادرة_للمبني",
	"اتصال_المشروع_بالغاز",
}

// ColumnRank - позиция колонки в анкете для источников без собственного порядка колонок (свойства GeoJSON).
// Неизвестные колонки идут после известных.
func ColumnRank(name string) int {
	name = strings.TrimSpace(name)
	for i, c := range sourceColumns {
		if c == name {
			return i
		}
	}
	return len(sourceColumns)
}

// SortColumns упорядочивает колонки как в анкете, остальные по алфавиту
func SortColumns(columns []string) {
	sort.SliceStable(columns, func(i, j int) bool {
		ri, rj := ColumnRank(columns[i]), ColumnRank(columns[j])
		if ri != rj {
			return ri < rj
		}
		return columns[i] < columns[j]
	})
}
