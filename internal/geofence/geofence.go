// Package geofence provides point-containment lookups against the named
// regions of the monitored area: the province envelope, district envelopes
// and protected forest areas.
package geofence

// Kind classifies a region.
type Kind string

const (
	KindProvince          Kind = "province"
	KindDistrict          Kind = "district"
	KindNationalPark      Kind = "national_park"
	KindWildlifeSanctuary Kind = "wildlife_sanctuary"
)

// Bounds is an axis-aligned bounding box in degrees. All edges are
// inclusive: a point exactly on a boundary is inside.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains reports whether the point lies within the bounds.
func (b Bounds) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat &&
		lon >= b.MinLon && lon <= b.MaxLon
}

// Region is a named area with a containment test. Regions are immutable
// after registry construction.
type Region struct {
	ID     string
	Name   string // local (Thai) name, used in alerts
	NameEN string
	Kind   Kind
	Bounds Bounds
}

// Registry holds the configured regions. Lookup lists are ordered and
// scanned linearly; the first spatial match wins, so overlap resolution is
// purely list order.
type Registry struct {
	province       Region
	districts      []Region
	protectedAreas []Region
}

// NewRegistry builds a registry from explicit region lists.
func NewRegistry(province Region, districts, protectedAreas []Region) *Registry {
	return &Registry{
		province:       province,
		districts:      districts,
		protectedAreas: protectedAreas,
	}
}

// Province returns the outer envelope region.
func (r *Registry) Province() Region {
	return r.province
}

// Districts returns the district regions in lookup order.
func (r *Registry) Districts() []Region {
	return r.districts
}

// ProtectedAreas returns the protected-area regions in lookup order.
func (r *Registry) ProtectedAreas() []Region {
	return r.protectedAreas
}

// InProvince reports whether the point lies within the province envelope.
// Detections outside it are discarded before any further processing.
func (r *Registry) InProvince(lat, lon float64) bool {
	return r.province.Bounds.Contains(lat, lon)
}

// District returns the first district containing the point, or false when
// the point falls in no named district.
func (r *Registry) District(lat, lon float64) (Region, bool) {
	for _, d := range r.districts {
		if d.Bounds.Contains(lat, lon) {
			return d, true
		}
	}
	return Region{}, false
}

// ProtectedArea returns the first protected area containing the point, or
// false when the point falls in no protected area.
func (r *Registry) ProtectedArea(lat, lon float64) (Region, bool) {
	for _, p := range r.protectedAreas {
		if p.Bounds.Contains(lat, lon) {
			return p, true
		}
	}
	return Region{}, false
}
