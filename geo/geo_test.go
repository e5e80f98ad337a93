package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCityTable(t *testing.T) {
	cs := Cities()
	require.Len(t, cs, 10)
	assert.Equal(t, "Delhi", cs[0].Name)
	assert.Equal(t, "Lucknow", cs[9].Name)

	delhi, ok := Lookup("Delhi")
	require.True(t, ok)
	assert.InDelta(t, 28.6139, delhi.Lat, 1e-9)
	assert.InDelta(t, 77.2090, delhi.Lon, 1e-9)

	_, ok = Lookup("Atlantis")
	assert.False(t, ok)
	_, ok = Lookup("delhi")
	assert.False(t, ok, "lookup is case sensitive")
}

func TestCitiesReturnsCopy(t *testing.T) {
	cs := Cities()
	cs[0].Name = "Changed"
	_, ok := Lookup("Delhi")
	assert.True(t, ok)
	assert.Equal(t, "Delhi", Cities()[0].Name)
}

func TestParseCitiesRejectsBadTables(t *testing.T) {
	_, err := parseCities([]byte("cities:\n  - name: A\n    lat: 1\n    lon: 1\n  - name: A\n    lat: 2\n    lon: 2\n"))
	assert.Error(t, err)

	_, err = parseCities([]byte("cities:\n  - name: B\n    lat: 91\n    lon: 1\n"))
	assert.Error(t, err)

	_, err = parseCities([]byte("cities: [unterminated"))
	assert.Error(t, err)
}

func TestNearest(t *testing.T) {
	idx := NewIndex()
	require.Equal(t, 10, idx.Size())

	// Noida is next to Delhi.
	c, dist, ok := idx.Nearest(28.5355, 77.3910)
	require.True(t, ok)
	assert.Equal(t, "Delhi", c.Name)
	assert.Less(t, dist, 25.0)

	// Navi Mumbai.
	c, _, ok = idx.Nearest(19.0330, 73.0297)
	require.True(t, ok)
	assert.Equal(t, "Mumbai", c.Name)

	c, dist, ok = idx.Nearest(13.0827, 80.2707)
	require.True(t, ok)
	assert.Equal(t, "Chennai", c.Name)
	assert.InDelta(t, 0, dist, 1e-6)
}

func TestNearestEmptyIndex(t *testing.T) {
	_, _, ok := NewIndexOf(nil).Nearest(0, 0)
	assert.False(t, ok)
}

func TestWithin(t *testing.T) {
	idx := NewIndex()

	// Roughly the southern peninsula.
	got, err := idx.Within(BoundingBox{MinLat: 8, MinLon: 70, MaxLat: 20, MaxLon: 85})
	require.NoError(t, err)
	names := make([]string, len(got))
	for i, c := range got {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Mumbai", "Bangalore", "Hyderabad", "Chennai", "Pune"}, names)

	// Degenerate box on a single city.
	got, err = idx.Within(BoundingBox{MinLat: 26.9124, MinLon: 75.7873, MaxLat: 26.9124, MaxLon: 75.7873})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Jaipur", got[0].Name)

	got, err = idx.Within(BoundingBox{MinLat: -10, MinLon: -10, MaxLat: 0, MaxLon: 0})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWithinInvalidBox(t *testing.T) {
	_, err := NewIndex().Within(BoundingBox{MinLat: 20, MaxLat: 10, MinLon: 70, MaxLon: 80})
	assert.Error(t, err)

	_, err = NewIndex().Within(BoundingBox{MinLat: -100, MaxLat: 10, MinLon: 70, MaxLon: 80})
	assert.Error(t, err)
}

func TestDistance(t *testing.T) {
	// Delhi to Mumbai is about 1150 km.
	d := Distance(28.6139, 77.2090, 19.0760, 72.8777)
	assert.InDelta(t, 1150, d, 15)
	assert.InDelta(t, 0, Distance(10, 10, 10, 10), 1e-9)
}
