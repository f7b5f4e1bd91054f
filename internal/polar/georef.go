package polar

import (
	"fmt"
	"math"
)

// ProjectionLocal names the site-centred planar frame used by Flat.
const ProjectionLocal = "local"

// Site is the location of the radar. Planar collaborators use X/Y; geographic
// collaborators use Lon/Lat. Alt is the antenna altitude in metres.
type Site struct {
	X, Y     float64
	Lon, Lat float64
	Alt      float64
}

// Georeferencer converts polar bins to planar centroid coordinates. The
// returned slices have len(ranges)*len(azimuths) entries in row-major
// (azimuth-major) order.
type Georeferencer interface {
	PolarToPlanar(ranges, azimuths []float64, site Site, projection string) (x, y []float64, err error)
}

// GeoreferencerFunc adapts a plain function to the Georeferencer interface.
type GeoreferencerFunc func(ranges, azimuths []float64, site Site, projection string) (x, y []float64, err error)

// PolarToPlanar calls f.
func (f GeoreferencerFunc) PolarToPlanar(ranges, azimuths []float64, site Site, projection string) (x, y []float64, err error) {
	return f(ranges, azimuths, site, projection)
}

// Flat places bins on a flat plane around the site's planar X/Y position.
// Azimuth is measured clockwise from north (+Y), so a bin at azimuth 90
// lies on +X. ElevationDeg is the beam elevation; ground distance is
// range*cos(elevation).
type Flat struct {
	ElevationDeg float64
}

// PolarToPlanar implements Georeferencer.
func (f Flat) PolarToPlanar(ranges, azimuths []float64, site Site, projection string) (x, y []float64, err error) {
	if projection != "" && projection != ProjectionLocal {
		return nil, nil, fmt.Errorf("flat georeferencer: unsupported projection %q", projection)
	}

	x = make([]float64, 0, len(ranges)*len(azimuths))
	y = make([]float64, 0, len(ranges)*len(azimuths))
	for _, az := range azimuths {
		for _, r := range ranges {
			bx, by := SphericalToPlanar(r, az, f.ElevationDeg)
			x = append(x, site.X+bx)
			y = append(y, site.Y+by)
		}
	}
	return x, y, nil
}

// SphericalToPlanar projects a slant range (m), azimuth (degrees) and
// elevation (degrees) onto the ground plane. X=east, Y=north.
func SphericalToPlanar(distance, azimuthDeg, elevationDeg float64) (x, y float64) {
	azimuthRad := azimuthDeg * math.Pi / 180.0
	elevationRad := elevationDeg * math.Pi / 180.0

	ground := distance * math.Cos(elevationRad)
	x = ground * math.Sin(azimuthRad)
	y = ground * math.Cos(azimuthRad)
	return
}
