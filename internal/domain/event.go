package domain

// События взаимодействия с дашбордом. Каждое обрабатывается своим редьюсером.

// FileUploaded - пользователь загрузил и успешно разобрал новый файл
type FileUploaded struct {
	Records RecordSet
	Source  DatasetSource
}

// FiltersChanged - пользователь изменил значения фильтров
type FiltersChanged struct {
	Filters []FilterConstraint
}

// MapMoved - карта сообщила текущий видимый bbox
type MapMoved struct {
	Viewport BoundingBox
}

// MapClicked - клик по карте в географической точке
type MapClicked struct {
	Point     Point
	Tolerance float64
}

// RecordChosen - проект выбран из списка
type RecordChosen struct {
	RecordID int
}

// ZoomRequested - запрос приблизить карту к одному проекту
type ZoomRequested struct {
	RecordID int
}

// ZoomCleared - сброс принудительного зума
type ZoomCleared struct{}

// Event - событие взаимодействия; имя используется в логах и метриках
type Event interface {
	EventName() string
}

func (FileUploaded) EventName() string   { return "file_uploaded" }
func (FiltersChanged) EventName() string { return "filters_changed" }
func (MapMoved) EventName() string       { return "map_moved" }
func (MapClicked) EventName() string     { return "map_clicked" }
func (RecordChosen) EventName() string   { return "record_chosen" }
func (ZoomRequested) EventName() string  { return "zoom_requested" }
func (ZoomCleared) EventName() string    { return "zoom_cleared" }
