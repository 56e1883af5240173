package domain

import "github.com/paulmach/orb/geojson"

// FilterStep - состояние одного шага каскада: выбранное значение и доступные варианты
type FilterStep struct {
	Field    Field    `json:"field"`
	Selected string   `json:"selected"`
	Options  []string `json:"options"`
	Skipped  bool     `json:"skipped,omitempty"`
}

// ListItem - проект в списке справа от карты
type ListItem struct {
	Record
	Selected bool `json:"selected,omitempty"`
	// Pinned - выбранный проект вне текущей видимой выборки, закреплён сверху списка
	Pinned bool `json:"pinned,omitempty"`
}

// DashboardView - полностью пересчитанное представление после взаимодействия
type DashboardView struct {
	SessionID      string        `json:"session_id"`
	Revision       int64         `json:"revision"`
	Source         DatasetSource `json:"source"`
	TotalCount     int           `json:"total_count"`
	Filters        []FilterStep  `json:"filters"`
	FilteredCount  int           `json:"filtered_count"`
	ForcedViewport *BoundingBox  `json:"forced_viewport,omitempty"`
	ZoomTarget     *BoundingBox  `json:"zoom_target,omitempty"`
	Viewport       *BoundingBox  `json:"viewport,omitempty"`
	SelectedID     *int          `json:"selected_id,omitempty"`
	TopSummary     Summary       `json:"top_summary"`
	VisibleSummary Summary       `json:"visible_summary"`
	Visible        []ListItem    `json:"visible"`
	Remaining      int           `json:"remaining"`
	Breakdowns     []Breakdown   `json:"breakdowns"`
	Empty          bool          `json:"empty"`
}

// MapPayload - данные для карты: отфильтрованные проекты и принудительный viewport
type MapPayload struct {
	SessionID      string                     `json:"session_id"`
	Revision       int64                      `json:"revision"`
	ForcedViewport *BoundingBox               `json:"forced_viewport,omitempty"`
	FitBounds      *[2][2]float64             `json:"fit_bounds,omitempty"`
	SelectedID     *int                       `json:"selected_id,omitempty"`
	Features       *geojson.FeatureCollection `json:"features"`
}
