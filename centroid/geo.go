package centroid

import (
	"math"

	"github.com/hupe1980/ensemble/feature"
)

// Geo is the weighted spherical mean of geographic points. Points are averaged
// as unit vectors and the mean direction is projected back to lat/lon.
type Geo struct {
	name    string
	weight  float64
	x, y, z float64
}

// NewGeo returns an empty Geo centroid. It satisfies feature.CentroidFactory.
func NewGeo(name string) feature.Centroid[feature.Geo] {
	return &Geo{name: name}
}

func toCartesian(g feature.Geo) (x, y, z float64) {
	lat := g.Lat() * math.Pi / 180
	lon := g.Lon() * math.Pi / 180
	return math.Cos(lat) * math.Cos(lon), math.Cos(lat) * math.Sin(lon), math.Sin(lat)
}

// Add implements feature.Centroid.
func (c *Geo) Add(g feature.Geo) {
	w := g.Weight()
	x, y, z := toCartesian(g)
	c.x += x * w
	c.y += y * w
	c.z += z * w
	c.weight += w
}

// Remove implements feature.Centroid.
func (c *Geo) Remove(g feature.Geo) {
	if c.weight == 0 {
		return
	}
	w := g.Weight()
	x, y, z := toCartesian(g)
	c.x -= x * w
	c.y -= y * w
	c.z -= z * w
	c.weight -= w
	if c.weight < vanishing {
		c.Reset()
	}
}

// Reset implements feature.Centroid.
func (c *Geo) Reset() {
	c.weight, c.x, c.y, c.z = 0, 0, 0, 0
}

// Centroid implements feature.Centroid.
func (c *Geo) Centroid() (feature.Geo, bool) {
	if c.weight <= 0 {
		return feature.Geo{}, false
	}
	ax, ay, az := c.x/c.weight, c.y/c.weight, c.z/c.weight
	lon := math.Atan2(ay, ax) * 180 / math.Pi
	lat := math.Atan2(az, math.Hypot(ax, ay)) * 180 / math.Pi
	return feature.NewGeo(c.name, lat, lon).WithWeight(c.weight), true
}

// Aggregate implements feature.Centroid.
//
// The mean direction is renormalised to the unit sphere, so merging two
// partial Geo centroids is exact only for tightly grouped points.
func (c *Geo) Aggregate() []feature.Geo {
	g, ok := c.Centroid()
	if !ok {
		return nil
	}
	return []feature.Geo{g}
}
