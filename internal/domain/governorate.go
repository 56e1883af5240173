package domain

// GovernorateCodes - фиксированный справочник кодов мухафаз (23 записи).
// Код 35 (Южный Синай) не последовательный, так он закодирован в исходных анкетах.
var GovernorateCodes = map[string]string{
	"1":  "القاهرة",
	"2":  "الإسكندرية",
	"3":  "بورسعيد",
	"4":  "السويس",
	"5":  "دمياط",
	"6":  "الدقهلية",
	"7":  "الشرقية",
	"8":  "القليوبية",
	"9":  "كفر الشيخ",
	"10": "الغربية",
	"11": "المنوفية",
	"12": "البحيرة",
	"13": "الإسماعيلية",
	"14": "الجيزة",
	"15": "بني سويف",
	"16": "الفيوم",
	"17": "المنيا",
	"18": "أسيوط",
	"19": "سوهاج",
	"20": "قنا",
	"21": "أسوان",
	"22": "الأقصر",
	"35": "جنوب سيناء",
}

// ResolveGovernorate возвращает название мухафазы по коду или сам код, если он неизвестен
func ResolveGovernorate(code string) string {
	if name, ok := GovernorateCodes[code]; ok {
		return name
	}
	return code
}
