package geo

import (
	"fmt"
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
)

const (
	tolerance   = 0.01
	minChildren = 2
	maxChildren = 8
	dimensions  = 2
	earthRadius = 6371.0 // km

	// nearestCandidates is how many planar neighbours are re-ranked by
	// great-circle distance.
	nearestCandidates = 3
)

// BoundingBox is a rectangular area defined by two corners.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Validate checks the corners are ordered and within range.
func (b BoundingBox) Validate() error {
	if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
		return fmt.Errorf("geo: bounding box corners are inverted")
	}
	if b.MinLat < -90 || b.MaxLat > 90 || b.MinLon < -180 || b.MaxLon > 180 {
		return fmt.Errorf("geo: bounding box out of range")
	}
	return nil
}

// Contains reports whether c lies inside the box, edges included.
func (b BoundingBox) Contains(c City) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}

// spatialCity wraps a City to implement rtreego.Spatial
type spatialCity struct {
	City
	order int
	rect  *rtreego.Rect
}

func (sc *spatialCity) Bounds() *rtreego.Rect {
	return sc.rect
}

// Index is an R-tree over a set of cities. It is immutable after
// construction and safe for concurrent use.
type Index struct {
	tree *rtreego.Rtree
	size int
}

// NewIndex builds an index over the known city table.
func NewIndex() *Index {
	return NewIndexOf(cities)
}

// NewIndexOf builds an index over the given cities.
func NewIndexOf(cs []City) *Index {
	tree := rtreego.NewTree(dimensions, minChildren, maxChildren)
	for i, c := range cs {
		p := rtreego.Point{c.Lat, c.Lon}
		tree.Insert(&spatialCity{City: c, order: i, rect: p.ToRect(tolerance)})
	}
	return &Index{tree: tree, size: len(cs)}
}

// Size returns the number of indexed cities.
func (idx *Index) Size() int {
	return idx.size
}

// Nearest returns the city closest to (lat, lon) and its great-circle
// distance in km. ok is false when the index is empty.
func (idx *Index) Nearest(lat, lon float64) (city City, distanceKm float64, ok bool) {
	if idx.size == 0 {
		return City{}, 0, false
	}

	k := nearestCandidates
	if k > idx.size {
		k = idx.size
	}
	candidates := idx.tree.NearestNeighbors(k, rtreego.Point{lat, lon})

	best := math.Inf(1)
	for _, s := range candidates {
		sc, isCity := s.(*spatialCity)
		if !isCity {
			continue
		}
		d := Distance(lat, lon, sc.Lat, sc.Lon)
		if d < best {
			best = d
			city = sc.City
			ok = true
		}
	}
	return city, best, ok
}

// Within returns the cities inside box, in table order.
func (idx *Index) Within(box BoundingBox) ([]City, error) {
	if err := box.Validate(); err != nil {
		return nil, err
	}

	// rtreego rejects zero-length sides, so pad degenerate boxes; the strict
	// Contains check below keeps the result exact.
	latLen := math.Max(box.MaxLat-box.MinLat, tolerance)
	lonLen := math.Max(box.MaxLon-box.MinLon, tolerance)
	bounds, err := rtreego.NewRect(rtreego.Point{box.MinLat - tolerance, box.MinLon - tolerance},
		[]float64{latLen + 2*tolerance, lonLen + 2*tolerance})
	if err != nil {
		return nil, fmt.Errorf("geo: invalid bounding box: %w", err)
	}

	hits := idx.tree.SearchIntersect(bounds)
	found := make([]*spatialCity, 0, len(hits))
	for _, s := range hits {
		sc, isCity := s.(*spatialCity)
		if !isCity || !box.Contains(sc.City) {
			continue
		}
		found = append(found, sc)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].order < found[j].order })

	out := make([]City, len(found))
	for i, sc := range found {
		out[i] = sc.City
	}
	return out, nil
}

// Distance calculates the haversine distance between two points in kilometers.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180.0
	lon1Rad := lon1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0
	lon2Rad := lon2 * math.Pi / 180.0

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadius * c
}
