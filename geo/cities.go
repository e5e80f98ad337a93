// Package geo holds the static table of known delivery cities and a spatial
// index over it.
package geo

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed cities.yaml
var citiesYAML []byte

// City is a known delivery location.
type City struct {
	Name string  `yaml:"name" json:"name"`
	Lat  float64 `yaml:"lat" json:"lat"`
	Lon  float64 `yaml:"lon" json:"lon"`
}

type cityTable struct {
	Cities []City `yaml:"cities"`
}

var (
	cities = mustParseCities(citiesYAML)
	byName = indexByName(cities)
)

func parseCities(data []byte) ([]City, error) {
	var t cityTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("geo: parse city table: %w", err)
	}
	seen := make(map[string]struct{}, len(t.Cities))
	for _, c := range t.Cities {
		if c.Name == "" {
			return nil, fmt.Errorf("geo: city with empty name")
		}
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("geo: duplicate city %q", c.Name)
		}
		if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
			return nil, fmt.Errorf("geo: city %q has out of range coordinates", c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return t.Cities, nil
}

func mustParseCities(data []byte) []City {
	c, err := parseCities(data)
	if err != nil {
		panic(err)
	}
	return c
}

func indexByName(cs []City) map[string]City {
	m := make(map[string]City, len(cs))
	for _, c := range cs {
		m[c.Name] = c
	}
	return m
}

// Cities returns the known cities in table order.
func Cities() []City {
	out := make([]City, len(cities))
	copy(out, cities)
	return out
}

// Lookup returns the city with the given name. Names are case sensitive.
func Lookup(name string) (City, bool) {
	c, ok := byName[name]
	return c, ok
}
