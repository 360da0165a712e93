// regions.go: built-in region data for Kanchanaburi province.
package geofence

// DistrictFallback labels detections inside the province envelope that fall
// in no named district (nearby agricultural areas).
const DistrictFallback = "พื้นที่ใกล้เคียง"

// DefaultRegistry returns the built-in Kanchanaburi region set.
func DefaultRegistry() *Registry {
	return NewRegistry(kanchanaburiProvince, kanchanaburiDistricts, kanchanaburiProtectedAreas)
}

var kanchanaburiProvince = Region{
	ID:     "kanchanaburi",
	Name:   "กาญจนบุรี",
	NameEN: "Kanchanaburi",
	Kind:   KindProvince,
	Bounds: Bounds{MinLat: 13.72614, MaxLat: 15.66301, MinLon: 98.18170, MaxLon: 99.89221},
}

var kanchanaburiDistricts = []Region{
	{
		ID:     "mueang_kanchanaburi",
		Name:   "เมืองกาญจนบุรี",
		NameEN: "Mueang Kanchanaburi",
		Kind:   KindDistrict,
		Bounds: Bounds{MinLat: 13.95, MaxLat: 14.15, MinLon: 99.40, MaxLon: 99.65},
	},
	{
		ID:     "sai_yok",
		Name:   "ไทรโยค",
		NameEN: "Sai Yok",
		Kind:   KindDistrict,
		Bounds: Bounds{MinLat: 14.10, MaxLat: 14.60, MinLon: 98.70, MaxLon: 99.30},
	},
	{
		ID:     "si_sawat",
		Name:   "ศรีสวัสดิ์",
		NameEN: "Si Sawat",
		Kind:   KindDistrict,
		Bounds: Bounds{MinLat: 14.40, MaxLat: 15.10, MinLon: 99.00, MaxLon: 99.50},
	},
}

// Protected forest areas in and around the province. Bounding boxes are
// approximations of the true polygons, deliberately generous so edge
// detections still attach to the area.
var kanchanaburiProtectedAreas = []Region{
	{
		ID:     "erawan",
		Name:   "อุทยานแห่งชาติเอราวัณ",
		NameEN: "Erawan National Park",
		Kind:   KindNationalPark,
		Bounds: Bounds{MinLat: 14.00, MaxLat: 14.52, MinLon: 98.90, MaxLon: 99.25},
	},
	{
		ID:     "saiyok",
		Name:   "อุทยานแห่งชาติไทรโยค",
		NameEN: "Sai Yok National Park",
		Kind:   KindNationalPark,
		Bounds: Bounds{MinLat: 14.05, MaxLat: 14.55, MinLon: 98.55, MaxLon: 99.15},
	},
	{
		ID:     "chalerm_rattanakosin",
		Name:   "อุทยานแห่งชาติเฉลิมรัตนโกสินทร์",
		NameEN: "Chalerm Rattanakosin National Park",
		Kind:   KindNationalPark,
		Bounds: Bounds{MinLat: 14.60, MaxLat: 14.80, MinLon: 98.75, MaxLon: 99.05},
	},
	{
		ID:     "lam_khlong_ngu",
		Name:   "อุทยานแห่งชาติลำคลองงู",
		NameEN: "Lam Khlong Ngu National Park",
		Kind:   KindNationalPark,
		Bounds: Bounds{MinLat: 14.85, MaxLat: 15.25, MinLon: 98.80, MaxLon: 99.30},
	},
	{
		ID:     "khao_laem",
		Name:   "อุทยานแห่งชาติเขาแหลม",
		NameEN: "Khao Laem National Park",
		Kind:   KindNationalPark,
		Bounds: Bounds{MinLat: 14.80, MaxLat: 15.30, MinLon: 98.45, MaxLon: 98.90},
	},
	{
		ID:     "salakphra",
		Name:   "เขตรักษาพันธุ์สัตว์ป่าสลักพระ",
		NameEN: "Salak Phra Wildlife Sanctuary",
		Kind:   KindWildlifeSanctuary,
		Bounds: Bounds{MinLat: 14.05, MaxLat: 14.40, MinLon: 99.20, MaxLon: 99.55},
	},
	{
		ID:     "thung_yai_naresuan_west",
		Name:   "เขตรักษาพันธุ์สัตว์ป่าทุ่งใหญ่นเรศวร (ฝั่งตะวันตก)",
		NameEN: "Thung Yai Naresuan Wildlife Sanctuary (West)",
		Kind:   KindWildlifeSanctuary,
		Bounds: Bounds{MinLat: 15.15, MaxLat: 15.70, MinLon: 98.35, MaxLon: 98.95},
	},
	{
		ID:     "huai_kha_khaeng",
		Name:   "เขตรักษาพันธุ์สัตว์ป่าห้วยขาแข้ง",
		NameEN: "Huai Kha Khaeng Wildlife Sanctuary",
		Kind:   KindWildlifeSanctuary,
		Bounds: Bounds{MinLat: 15.30, MaxLat: 15.75, MinLon: 99.05, MaxLon: 99.50},
	},
}
