package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/EricSteeles/Curb-Alert/internal/domain/model"
)

const earthRadiusMiles = 3959

var ErrNoCities = errors.New("no cities configured")

// Geocoder translates between free-form location strings and coordinates.
// The default deployment runs without one; radius search then relies on
// coordinates the poster supplied directly, and reverse lookups fall back to
// NearestCity.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (model.Coordinates, error)
	ReverseGeocode(ctx context.Context, point model.Coordinates) (string, error)
}

type City struct {
	ID     string
	Name   string
	Center model.Coordinates
}

type Service struct {
	cities   []City
	geocoder Geocoder
}

func NewService(cities []City, geocoder Geocoder) *Service {
	return &Service{cities: cities, geocoder: geocoder}
}

// DistanceMiles is the haversine distance between two points, rounded to a
// tenth of a mile.
func DistanceMiles(a, b model.Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(earthRadiusMiles*c*10) / 10
}

func WithinRadius(center, point model.Coordinates, radiusMiles float64) bool {
	if radiusMiles <= 0 {
		return false
	}
	return DistanceMiles(center, point) <= radiusMiles
}

// NearestCity picks the configured city closest to the given point.
func (s *Service) NearestCity(point model.Coordinates) (City, float64, error) {
	if len(s.cities) == 0 {
		return City{}, 0, ErrNoCities
	}

	best := s.cities[0]
	bestDist := DistanceMiles(point, best.Center)
	for _, city := range s.cities[1:] {
		if d := DistanceMiles(point, city.Center); d < bestDist {
			best = city
			bestDist = d
		}
	}

	return best, bestDist, nil
}

// Resolve geocodes a location string when a geocoder is configured.
func (s *Service) Resolve(ctx context.Context, location string) (model.Coordinates, error) {
	if s.geocoder == nil {
		return model.Coordinates{}, fmt.Errorf("geocoder is not configured")
	}
	if strings.TrimSpace(location) == "" {
		return model.Coordinates{}, fmt.Errorf("location is required")
	}

	coords, err := s.geocoder.Geocode(ctx, location)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("geocode location: %w", err)
	}

	return coords, nil
}

// Describe names a point: through the geocoder when one is configured,
// otherwise as the nearest configured city.
func (s *Service) Describe(ctx context.Context, point model.Coordinates) (string, error) {
	if s.geocoder != nil {
		name, err := s.geocoder.ReverseGeocode(ctx, point)
		if err != nil {
			return "", fmt.Errorf("reverse geocode: %w", err)
		}
		return name, nil
	}

	city, _, err := s.NearestCity(point)
	if err != nil {
		return "", err
	}
	return city.Name, nil
}
