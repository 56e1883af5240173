package domain

import (
	"github.com/paulmach/orb"
)

// Field - каноническое имя поля записи
type Field string

const (
	FieldGovernorate      Field = "governorate"
	FieldCity             Field = "city"
	FieldProjectName      Field = "project_name"
	FieldOwner            Field = "owner"
	FieldTenure           Field = "tenure"
	FieldHousingType      Field = "housing_type"
	FieldCondition        Field = "condition"
	FieldDecisions        Field = "decisions"
	FieldGasConnection    Field = "gas_connection"
	FieldBuildingsCount   Field = "buildings_count"
	FieldFloorsCount      Field = "floors_count"
	FieldUnitsPerFloor    Field = "units_per_floor"
	FieldUnitsCount       Field = "units_count"
	FieldConstructionYear Field = "construction_year"
	FieldGeometry         Field = "geometry"
)

const (
	// Unspecified подставляется вместо пустых и null-подобных категориальных значений
	Unspecified = "غير محدد"

	// AllValues - значение фильтра "все", не сужает выборку
	AllValues = "الكل"
)

// CategoricalFields - текстовые поля, которые нормализуются к Unspecified
var CategoricalFields = []Field{
	FieldGovernorate,
	FieldCity,
	FieldProjectName,
	FieldOwner,
	FieldTenure,
	FieldHousingType,
	FieldCondition,
	FieldDecisions,
	FieldGasConnection,
}

// FactorFields - числовые множители, из которых выводится units_count
var FactorFields = []Field{
	FieldBuildingsCount,
	FieldFloorsCount,
	FieldUnitsPerFloor,
}

// CanonicalFields - полный словарь полей, который видят коллабораторы (карта, список, графики)
var CanonicalFields = []Field{
	FieldGovernorate,
	FieldCity,
	FieldProjectName,
	FieldOwner,
	FieldTenure,
	FieldHousingType,
	FieldCondition,
	FieldDecisions,
	FieldGasConnection,
	FieldBuildingsCount,
	FieldFloorsCount,
	FieldUnitsPerFloor,
	FieldUnitsCount,
	FieldConstructionYear,
	FieldGeometry,
}

// Record - проект жилищного строительства в канонической схеме
type Record struct {
	ID               int          `json:"id"`
	Governorate      string       `json:"governorate"`
	City             string       `json:"city"`
	ProjectName      string       `json:"project_name"`
	Owner            string       `json:"owner"`
	Tenure           string       `json:"tenure"`
	HousingType      string       `json:"housing_type"`
	Condition        string       `json:"condition"`
	Decisions        string       `json:"decisions"`
	GasConnection    string       `json:"gas_connection"`
	BuildingsCount   int          `json:"buildings_count"`
	FloorsCount      int          `json:"floors_count"`
	UnitsPerFloor    int          `json:"units_per_floor"`
	UnitsCount       int          `json:"units_count"`
	ConstructionYear string       `json:"construction_year"`
	Geometry         orb.Geometry `json:"-"`
}

// Category возвращает значение категориального поля
func (r *Record) Category(field Field) (string, bool) {
	switch field {
	case FieldGovernorate:
		return r.Governorate, true
	case FieldCity:
		return r.City, true
	case FieldProjectName:
		return r.ProjectName, true
	case FieldOwner:
		return r.Owner, true
	case FieldTenure:
		return r.Tenure, true
	case FieldHousingType:
		return r.HousingType, true
	case FieldCondition:
		return r.Condition, true
	case FieldDecisions:
		return r.Decisions, true
	case FieldGasConnection:
		return r.GasConnection, true
	case FieldConstructionYear:
		return r.ConstructionYear, true
	default:
		return "", false
	}
}

// HasGeometry - есть ли у записи геометрия
func (r *Record) HasGeometry() bool {
	return r.Geometry != nil
}

// Properties - канонические атрибуты записи без геометрии
func (r *Record) Properties() map[string]interface{} {
	return map[string]interface{}{
		"id":                          r.ID,
		string(FieldGovernorate):      r.Governorate,
		string(FieldCity):             r.City,
		string(FieldProjectName):      r.ProjectName,
		string(FieldOwner):            r.Owner,
		string(FieldTenure):           r.Tenure,
		string(FieldHousingType):      r.HousingType,
		string(FieldCondition):        r.Condition,
		string(FieldDecisions):        r.Decisions,
		string(FieldGasConnection):    r.GasConnection,
		string(FieldBuildingsCount):   r.BuildingsCount,
		string(FieldFloorsCount):      r.FloorsCount,
		string(FieldUnitsPerFloor):    r.UnitsPerFloor,
		string(FieldUnitsCount):       r.UnitsCount,
		string(FieldConstructionYear): r.ConstructionYear,
	}
}

// RecordSet - упорядоченный набор записей со стабильными ID.
// Записи не изменяются после загрузки, набор заменяется целиком.
type RecordSet struct {
	Records []Record
	Fields  []Field
}

// NewRecordSet создаёт набор с полным каноническим словарём полей
func NewRecordSet(records []Record) RecordSet {
	return RecordSet{
		Records: records,
		Fields:  append([]Field(nil), CanonicalFields...),
	}
}

// Len - количество записей
func (s RecordSet) Len() int {
	return len(s.Records)
}

// IsEmpty - пустой ли набор
func (s RecordSet) IsEmpty() bool {
	return len(s.Records) == 0
}

// Has проверяет присутствие поля в наборе
func (s RecordSet) Has(field Field) bool {
	for _, f := range s.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// ByID ищет запись по стабильному идентификатору
func (s RecordSet) ByID(id int) (*Record, bool) {
	// ID совпадает с позицией, пока набор не переупорядочен
	if id >= 0 && id < len(s.Records) && s.Records[id].ID == id {
		return &s.Records[id], true
	}
	for i := range s.Records {
		if s.Records[i].ID == id {
			return &s.Records[i], true
		}
	}
	return nil, false
}

// Subset возвращает набор с теми же полями и другим списком записей
func (s RecordSet) Subset(records []Record) RecordSet {
	return RecordSet{Records: records, Fields: s.Fields}
}

// Bound - общий охват геометрий набора; false если геометрий нет
func (s RecordSet) Bound() (orb.Bound, bool) {
	var (
		bound orb.Bound
		found bool
	)
	for i := range s.Records {
		g := s.Records[i].Geometry
		if g == nil {
			continue
		}
		if !found {
			bound = g.Bound()
			found = true
			continue
		}
		bound = bound.Union(g.Bound())
	}
	return bound, found
}

// ToRawTable превращает канонический набор обратно в сырую таблицу
func (s RecordSet) ToRawTable() RawTable {
	columns := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f == FieldGeometry {
			continue
		}
		columns = append(columns, string(f))
	}

	rows := make([]RawRow, 0, len(s.Records))
	for i := range s.Records {
		props := s.Records[i].Properties()
		values := make([]interface{}, len(columns))
		for j, c := range columns {
			values[j] = props[c]
		}
		rows = append(rows, RawRow{Values: values, Geometry: s.Records[i].Geometry})
	}

	return RawTable{Columns: columns, Rows: rows}
}

// RawTable - сырые данные до нормализации: колонки в исходном порядке и строки значений
type RawTable struct {
	Columns []string
	Rows    []RawRow
}

// RawRow - строка сырой таблицы с необязательной геометрией (уже в WGS84)
type RawRow struct {
	Values   []interface{}
	Geometry orb.Geometry
}

// Value возвращает значение колонки по индексу, nil если строка короче заголовка
func (r RawRow) Value(idx int) interface{} {
	if idx < 0 || idx >= len(r.Values) {
		return nil
	}
	return r.Values[idx]
}
