package domain

// Summary - агрегаты по подмножеству проектов
type Summary struct {
	Count              int `json:"count"`
	UnitSum            int `json:"unit_sum"`
	BuildingSum        int `json:"building_sum"`
	AvgUnitsPerProject int `json:"avg_units_per_project"`
}

// CategoryCount - количество проектов с данным значением поля
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Breakdown - распределение значений одного поля для графика
type Breakdown struct {
	Field  Field           `json:"field"`
	Values []CategoryCount `json:"values"`
}

// ChartFields - поля, по которым строятся графики распределений
var ChartFields = []Field{
	FieldDecisions,
	FieldHousingType,
	FieldOwner,
	FieldTenure,
	FieldCondition,
	FieldGasConnection,
}
