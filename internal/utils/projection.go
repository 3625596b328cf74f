package utils

import (
	"fmt"
	"math"
	"strings"
)

// Projector maps geographic coordinates to planar coordinates in meters.
type Projector interface {
	Project(lat, lon float64) (x, y float64)
	Name() string
}

const (
	ProjectionLambert93        = "lambert93"
	ProjectionEquirectangular  = "equirectangular"
	grs80SemiMajorAxis         = 6378137.0
	grs80Eccentricity          = 0.0818191910428158
	lambert93FalseEasting      = 700000.0
	lambert93FalseNorthing     = 6600000.0
	lambert93OriginLatitude    = 46.5
	lambert93CentralMeridian   = 3.0
	lambert93StandardParallel1 = 49.0
	lambert93StandardParallel2 = 44.0
)

// NewProjector returns the projector registered under name. An empty name
// selects Lambert-93.
func NewProjector(name string) (Projector, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProjectionLambert93, "epsg:2154":
		return NewLambert93(), nil
	case ProjectionEquirectangular:
		return NewEquirectangular(lambert93OriginLatitude), nil
	default:
		return nil, fmt.Errorf("unknown projection %q", name)
	}
}

// Lambert93 is the French official conic conformal projection (EPSG:2154)
// on the GRS80 ellipsoid.
type Lambert93 struct {
	n, f, r0 float64
}

func NewLambert93() *Lambert93 {
	phi0 := radians(lambert93OriginLatitude)
	phi1 := radians(lambert93StandardParallel1)
	phi2 := radians(lambert93StandardParallel2)

	m1, m2 := lccM(phi1), lccM(phi2)
	t0, t1, t2 := lccT(phi0), lccT(phi1), lccT(phi2)

	n := (math.Log(m1) - math.Log(m2)) / (math.Log(t1) - math.Log(t2))
	f := m1 / (n * math.Pow(t1, n))
	return &Lambert93{
		n:  n,
		f:  f,
		r0: grs80SemiMajorAxis * f * math.Pow(t0, n),
	}
}

func (p *Lambert93) Name() string { return ProjectionLambert93 }

func (p *Lambert93) Project(lat, lon float64) (float64, float64) {
	r := grs80SemiMajorAxis * p.f * math.Pow(lccT(radians(lat)), p.n)
	theta := p.n * radians(lon-lambert93CentralMeridian)
	x := lambert93FalseEasting + r*math.Sin(theta)
	y := lambert93FalseNorthing + p.r0 - r*math.Cos(theta)
	return x, y
}

func lccM(phi float64) float64 {
	s := grs80Eccentricity * math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-s*s)
}

func lccT(phi float64) float64 {
	s := grs80Eccentricity * math.Sin(phi)
	return math.Tan(math.Pi/4-phi/2) / math.Pow((1-s)/(1+s), grs80Eccentricity/2)
}

// Equirectangular scales longitudes by the cosine of a reference latitude.
// It is accurate enough for a single metropolitan area.
type Equirectangular struct {
	cosRef float64
}

func NewEquirectangular(referenceLat float64) *Equirectangular {
	return &Equirectangular{cosRef: math.Cos(radians(referenceLat))}
}

func (p *Equirectangular) Name() string { return ProjectionEquirectangular }

func (p *Equirectangular) Project(lat, lon float64) (float64, float64) {
	return earthRadiusMeters * radians(lon) * p.cosRef, earthRadiusMeters * radians(lat)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
