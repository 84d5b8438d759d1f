package lrcat

// GeocoderKind selects which external geocoding backend, if any, the gps
// value transformer's town-name syntaxes should call through to.
type GeocoderKind string

const (
	GeocoderNone       GeocoderKind = "none"
	GeocoderBANFrance  GeocoderKind = "banfrance"
	GeocoderNominatim  GeocoderKind = "nominatim"
)

// Config is an immutable bundle of host-supplied settings. It is passed
// explicitly into each compiler/catalog constructor; there is no
// package-level singleton, unlike the process-wide config object the
// reference tool used.
type Config struct {
	// DefaultCatalogPath is used by hosts that let a user omit an explicit
	// catalog path; the compiler itself never reads it.
	DefaultCatalogPath string
	// DayFirstDates controls day-first vs month-first parsing for
	// ambiguous dates in the parsedate value transformer.
	DayFirstDates bool
	// Geocoder selects the backend a Geocoder implementation should use;
	// the compiler only ever calls through the Geocoder interface.
	Geocoder GeocoderKind
}

// DefaultConfig returns a Config with conservative defaults: month-first
// dates and no geocoding backend configured.
func DefaultConfig() Config {
	return Config{
		DayFirstDates: false,
		Geocoder:      GeocoderNone,
	}
}
