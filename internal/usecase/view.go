package usecase

import (
	"github.com/housing-survey-dashboard/internal/domain"
)

// BuildView пересчитывает представление дашборда: фильтры -> viewport -> агрегаты.
// Принудительный viewport вычисляется заново на каждом вызове.
func BuildView(s *domain.Session, listLimit int) domain.DashboardView {
	cascade := ApplyFilters(s.Records, s.Filters)
	visible := cascade.Filtered
	if s.Viewport != nil {
		visible = VisibleSubset(cascade.Filtered, *s.Viewport)
	}

	view := domain.DashboardView{
		SessionID:      s.ID.String(),
		Revision:       s.Revision,
		Source:         s.Source,
		TotalCount:     s.Records.Len(),
		Filters:        cascade.Steps,
		FilteredCount:  cascade.Filtered.Len(),
		ForcedViewport: ResolveZoom(s.ZoomTarget, cascade.Filtered),
		ZoomTarget:     s.ZoomTarget,
		Viewport:       s.Viewport,
		SelectedID:     s.SelectedID,
		TopSummary:     Aggregate(governorateScope(s)),
		VisibleSummary: Aggregate(visible.Records),
		Breakdowns:     Breakdowns(s.Records, visible.Records),
		Empty:          visible.IsEmpty(),
	}

	view.Visible, view.Remaining = listItems(s, visible.Records, listLimit)
	return view
}

// BuildMapPayload - отфильтрованные проекты в GeoJSON для карты
func BuildMapPayload(s *domain.Session) domain.MapPayload {
	cascade := ApplyFilters(s.Records, s.Filters)
	payload := domain.MapPayload{
		SessionID:      s.ID.String(),
		Revision:       s.Revision,
		ForcedViewport: ResolveZoom(s.ZoomTarget, cascade.Filtered),
		SelectedID:     s.SelectedID,
		Features:       cascade.Filtered.FeatureCollection(),
	}
	if payload.ForcedViewport != nil {
		corners := payload.ForcedViewport.Corners()
		payload.FitBounds = &corners
	}
	return payload
}

// governorateScope - весь набор, суженный только фильтром мухафазы (верхние счётчики)
func governorateScope(s *domain.Session) []domain.Record {
	gov := s.FilterValue(domain.FieldGovernorate)
	if gov == domain.AllValues || !s.Records.Has(domain.FieldGovernorate) {
		return s.Records.Records
	}
	return matchField(s.Records.Records, domain.FieldGovernorate, gov)
}

// listItems упорядочивает видимые проекты (выбранный первым) и обрезает список до limit.
// Выбранный проект вне видимой выборки закрепляется сверху и не входит в limit.
func listItems(s *domain.Session, visible []domain.Record, limit int) ([]domain.ListItem, int) {
	ordered := OrderForDisplay(visible, s.SelectedID)

	shown := len(ordered)
	if limit > 0 && shown > limit {
		shown = limit
	}

	items := make([]domain.ListItem, 0, shown+1)
	if s.SelectedID != nil && !containsID(visible, *s.SelectedID) {
		if rec, ok := s.Records.ByID(*s.SelectedID); ok {
			items = append(items, domain.ListItem{Record: *rec, Selected: true, Pinned: true})
		}
	}
	for _, r := range ordered[:shown] {
		items = append(items, domain.ListItem{
			Record:   r,
			Selected: s.SelectedID != nil && r.ID == *s.SelectedID,
		})
	}

	return items, len(ordered) - shown
}

func containsID(records []domain.Record, id int) bool {
	for i := range records {
		if records[i].ID == id {
			return true
		}
	}
	return false
}
