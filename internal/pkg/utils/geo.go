package utils

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// InGeographicRange проверяет, что пара x/y похожа на lon/lat, а не на метры проекции
func InGeographicRange(x, y float64) bool {
	return ValidateCoordinates(y, x)
}
