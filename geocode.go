package lrcat

import "context"

// Coordinates is a decimal-degrees WGS84 point.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Geocoder resolves a place name to coordinates for the gps criterion's
// town-name syntaxes. Implementations typically call out to a network
// geocoding service; this module defines only the contract, never an
// implementation, so the query layer stays free of a live network
// dependency.
type Geocoder interface {
	// Geocode resolves address to coordinates and a canonical display
	// name. It returns a *GeoFailureError when the address can't be
	// resolved.
	Geocode(ctx context.Context, address string) (Coordinates, string, error)
}

// NoneGeocoder is the zero-configuration Geocoder: every lookup fails.
// Used when Config.Geocoder is GeocoderNone, so the gps criterion's
// town-name syntaxes fail loudly with GeoFailureError instead of silently
// degrading.
type NoneGeocoder struct{}

func (NoneGeocoder) Geocode(_ context.Context, address string) (Coordinates, string, error) {
	return Coordinates{}, "", &GeoFailureError{Address: address, Err: errGeocoderNotConfigured}
}

var errGeocoderNotConfigured = geocoderNotConfiguredError{}

type geocoderNotConfiguredError struct{}

func (geocoderNotConfiguredError) Error() string { return "no geocoder backend configured" }
