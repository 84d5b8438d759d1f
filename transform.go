package lrcat

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TransformContext carries the per-compile-call state a value transformer
// needs beyond the raw text: host configuration, an optional geocoder for
// the gps criterion's town-name syntaxes, and a cancellation context for
// that geocoder call.
type TransformContext struct {
	Ctx      context.Context
	Config   Config
	Geocoder Geocoder
}

// splitOperator peels a leading SQL comparison operator off raw, defaulting
// to "=" when none is present. Grounded on the *_oper_* family in
// lrselectphoto.py, which all share this "operator prefix, then value"
// shape.
func splitOperator(raw string) (op, rest string) {
	raw = strings.TrimSpace(raw)
	for _, candidate := range []string{"<=", ">=", "==", "!=", "<", ">", "="} {
		if strings.HasPrefix(raw, candidate) {
			op := candidate
			if op == "==" {
				op = "="
			}
			return op, strings.TrimSpace(raw[len(candidate):])
		}
	}
	return "=", raw
}

// ParseDate parses a leading operator followed by a date of 1 (year), 2
// (year-month) or 3 (year-month-day) components, or a full timestamp, and
// returns the SQL comparison against captureTime. dayFirst controls
// ambiguous D/M ordering.
func ParseDate(column, raw string, dayFirst bool) (string, error) {
	op, dateStr := splitOperator(raw)
	t, precision, err := parseFlexibleDate(dateStr, dayFirst)
	if err != nil {
		return "", &BadValueError{Key: "date", Value: raw, Err: err}
	}
	switch precision {
	case "year":
		return fmt.Sprintf(`DATE(%s, 'start of year') %s DATE("%04d-01-01")`, column, op, t.Year()), nil
	case "month":
		return fmt.Sprintf(`DATE(%s, 'start of month') %s DATE("%04d-%02d-01")`, column, op, t.Year(), t.Month()), nil
	case "day":
		return fmt.Sprintf(`DATE(%s) %s DATE("%04d-%02d-%02d")`, column, op, t.Year(), t.Month(), t.Day()), nil
	default:
		return fmt.Sprintf(`%s %s "%s"`, column, op, t.Format("2006-01-02T15:04:05")), nil
	}
}

// parseFlexibleDate tries, in order, a bare year, a year-month, a full
// date, then falls back to a fixed list of full-timestamp layouts (RFC 3339,
// ISO date-time with "T" or a space, and the two slash orders, day-first
// ahead of month-first when dayFirst is set).
func parseFlexibleDate(s string, dayFirst bool) (time.Time, string, error) {
	s = strings.TrimSpace(s)
	if len(s) == 4 {
		if y, err := strconv.Atoi(s); err == nil {
			return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC), "year", nil
		}
	}
	if len(s) == 7 && s[4] == '-' {
		if t, err := time.Parse("2006-01", s); err == nil {
			return t, "month", nil
		}
	}
	if len(s) == 10 && s[4] == '-' {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t, "day", nil
		}
	}
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "01/02/2006", "02/01/2006"}
	if dayFirst {
		layouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "02/01/2006", "01/02/2006"}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, "full", nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unrecognized date %q", s)
}

// DateToLRStamp parses an operator+date and converts it to seconds since
// the Lightroom epoch. When utc is false and the parsed date carries no
// timezone, BadValueError is returned rather than silently defaulting to
// a local-zero offset (spec §9's local-date-without-timezone decision).
func DateToLRStamp(column, raw string, dayFirst, utc bool) (string, error) {
	op, dateStr := splitOperator(raw)
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}
	var t time.Time
	var err error
	hasZone := false
	for _, layout := range layouts {
		t, err = time.Parse(layout, dateStr)
		if err == nil {
			hasZone = layout == time.RFC3339
			break
		}
	}
	if err != nil {
		t, _, err = parseFlexibleDate(dateStr, dayFirst)
		if err != nil {
			return "", &BadValueError{Key: "date", Value: raw, Err: err}
		}
	}
	if !utc && !hasZone {
		return "", &BadValueError{Key: "date", Value: raw, Err: fmt.Errorf("local date %q has no timezone offset", dateStr)}
	}
	stamp := ToLightroomTimestamp(t)
	return fmt.Sprintf(`%s %s %s`, column, op, formatFloat(stamp)), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// ToBool accepts the vocabulary true|false|1|0|yes|no (case-insensitive).
func ToBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value %q", raw)
}

// BoolToEqual returns "=" or "!=" depending on the truthiness of raw.
func BoolToEqual(raw string) (string, error) {
	b, err := ToBool(raw)
	if err != nil {
		return "", err
	}
	if b {
		return "=", nil
	}
	return "!=", nil
}

// ZeroOne normalizes a boolean-ish value to the literal "0" or "1", used
// by hasgps.
func ZeroOne(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "0", "false":
		return "0", nil
	case "1", "true":
		return "1", nil
	}
	return "", &BadValueError{Key: "hasgps", Value: raw, Err: fmt.Errorf("invalid gps criterion value")}
}

// ValueOrNull renders null|!null|true|false to IS NULL / NOT NULL, and
// anything else to an exact-match literal.
func ValueOrNull(column, raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "null", "false":
		return column + " IS NULL"
	case "!null", "true":
		return column + " NOT NULL"
	default:
		return fmt.Sprintf(`%s = "%s"`, column, raw)
	}
}

// LikeValueOrNull is ValueOrNull but falls back to LIKE instead of exact
// equality.
func LikeValueOrNull(column, raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "null", "false":
		return column + " IS NULL"
	case "!null", "true":
		return column + " NOT NULL"
	default:
		return fmt.Sprintf(`%s LIKE "%s"`, column, raw)
	}
}

// ValueOrNotEqual renders true/false via to_bool into a "not empty"/"empty"
// string test, falling back to an exact match when the value isn't
// boolean-shaped.
func ValueOrNotEqual(column, raw string) string {
	if b, err := ToBool(raw); err == nil {
		if b {
			return fmt.Sprintf(`%s <> ""`, column)
		}
		return fmt.Sprintf(`%s == ""`, column)
	}
	return fmt.Sprintf(`%s = "%s"`, column, raw)
}

// Rating renders the rating criterion, treating a NULL rating as 0.
func Rating(column, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &BadValueError{Key: "rating", Value: raw}
	}
	if !isNumericComparison(raw) {
		return "", &BadValueError{Key: "rating", Value: raw, Err: fmt.Errorf("expected a numeric rating comparison")}
	}
	op, rest := splitOperator(raw)
	raw = op + rest
	if strings.HasPrefix(raw, "<") || raw == ">=0" {
		return fmt.Sprintf(`(%s IS NULL OR %s %s)`, column, column, raw), nil
	}
	if raw == "=0" || raw == "==0" {
		return column + " IS NULL", nil
	}
	return fmt.Sprintf(`%s %s`, column, raw), nil
}

func isNumericComparison(s string) bool {
	op, rest := splitOperator(s)
	_ = op
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return false
	}
	_, err := strconv.ParseFloat(rest, 64)
	return err == nil
}

// Aperture converts an f-number to Lightroom's stored log2 representation,
// 2*log2(N), rounded to 6 decimals so equality comparisons land on the
// stored double exactly.
func Aperture(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	op, rest := splitOperatorAperture(raw)
	rest = strings.TrimPrefix(strings.TrimPrefix(rest, "F"), "f")
	n, err := strconv.ParseFloat(rest, 64)
	if err != nil || n <= 0 {
		return "", &BadValueError{Key: "aperture", Value: raw, Err: fmt.Errorf("expected an f-number")}
	}
	value := 2 * math.Log2(n)
	return fmt.Sprintf(`%s ROUND(%s, 6)`, op, formatFloat(value)), nil
}

func splitOperatorAperture(raw string) (op, rest string) {
	op, rest = splitOperator(raw)
	if strings.HasSuffix(rest, "F") || strings.HasSuffix(rest, "f") {
		rest = rest[:len(rest)-1]
	}
	return op, rest
}

// Speed converts a shutter speed (either "1/N" or a whole number of
// seconds) to Lightroom's stored log2(1/seconds) representation. Because
// the stored value grows as the exposure gets faster, a user-space "<" or
// ">" is inverted before emission. The smart translator uses Speed only for
// the log2 value and swaps the node's own "<"/">" in its shutterSpeed case.
func Speed(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	op, rest := splitOperator(raw)
	seconds, err := parseShutterSeconds(rest)
	if err != nil {
		return "", &BadValueError{Key: "speed", Value: raw, Err: err}
	}
	switch op {
	case "<":
		op = ">"
	case ">":
		op = "<"
	}
	value := math.Log2(1 / seconds)
	return fmt.Sprintf(`%s %s`, op, formatFloat(value)), nil
}

func parseShutterSeconds(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "/"); idx >= 0 {
		num, err1 := strconv.ParseFloat(s[:idx], 64)
		den, err2 := strconv.ParseFloat(s[idx+1:], 64)
		if err1 != nil || err2 != nil || den == 0 {
			return 0, fmt.Errorf("invalid fraction %q", s)
		}
		return num / den, nil
	}
	return strconv.ParseFloat(s, 64)
}

// MetaStatusPredicate returns the (externalXmpIsDirty, sidecarStatus)
// predicate for a metadata-status enum value. Case-insensitive: the
// generic DSL's lowercase vocabulary and the smart translator's camelCase
// vocabulary are accepted identically.
func MetaStatusPredicate(amAlias, iAlias, raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "unknown":
		return fmt.Sprintf(`%s.externalXmpIsDirty = 0 AND %s.sidecarStatus = 2.0`, amAlias, iAlias), nil
	case "changedondisk":
		return fmt.Sprintf(`%s.externalXmpIsDirty=1 and (%s.sidecarStatus = 2.0 or %s.sidecarStatus = 0.0)`, amAlias, iAlias, iAlias), nil
	case "hasbeenchanged":
		return fmt.Sprintf(`%s.externalXmpIsDirty=0 and %s.sidecarStatus = 1.0`, amAlias, iAlias), nil
	case "conflict":
		return fmt.Sprintf(`%s.externalXmpIsDirty=1 and %s.sidecarStatus = 1.0`, amAlias, iAlias), nil
	case "uptodate":
		return fmt.Sprintf(`%s.externalXmpIsDirty=0 and %s.sidecarStatus = 0.0`, amAlias, iAlias), nil
	}
	return "", &BadValueError{Key: "metastatus", Value: raw}
}

// StacksPredicate renders the richer stacks vocabulary of this
// implementation (broader than the reference tool's only/none/one):
// yes|all|true, no|none|false, top|first, "no+top"|one, or a bare integer
// stack number.
func StacksPredicate(fsiAlias, raw string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "yes", "all", "true":
		return fmt.Sprintf(`%s.image is not NULL`, fsiAlias), nil
	case "no", "none", "false":
		return fmt.Sprintf(`%s.image is NULL`, fsiAlias), nil
	case "top", "first":
		return fmt.Sprintf(`%s.position=1.0`, fsiAlias), nil
	case "no+top", "one":
		return fmt.Sprintf(`(%s.image is NULL OR %s.position=1.0)`, fsiAlias, fsiAlias), nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return fmt.Sprintf(`%s.stack = %d`, fsiAlias, n), nil
	}
	return "", &BadValueError{Key: "stacks", Value: raw}
}

// SearchIndexDelimiter is the two-character marker the reference tool's
// exifindex/titleindex criteria wrap each tokenized value in. The original
// source literally emits a forward slash followed by 't' rather than a
// tab escape; without a real catalog to check the on-disk search index
// format against, this keeps the literal original behavior rather than
// silently "fixing" what looks like a typo (see DESIGN.md open question 1).
const SearchIndexDelimiter = "/t"

// SearchIndexLike renders the exifindex/titleindex criterion: split on '&'
// (AND) or '|' (OR), default combinator is whitespace-separated AND, each
// term wrapped in the search-index delimiter.
func SearchIndexLike(column, raw string) string {
	combine := " AND "
	var terms []string
	switch {
	case strings.Contains(raw, "&"):
		terms = strings.Split(raw, "&")
	case strings.Contains(raw, "|"):
		combine = " OR "
		terms = strings.Split(raw, "|")
	default:
		terms = strings.Fields(raw)
	}
	clauses := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		clauses = append(clauses, fmt.Sprintf(`%s LIKE "%%%s%s%s%%"`, column, SearchIndexDelimiter, t, SearchIndexDelimiter))
	}
	return "(" + strings.Join(clauses, combine) + ")"
}

// GPSRect is a normalized bounding rectangle (min <= max on both axes).
type GPSRect struct {
	Lat1, Lat2 float64
	Lon1, Lon2 float64
}

func reorder(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}

// squareAroundLocation returns a bounding rectangle centered at (lat, lon)
// that extends approximately widthKm in each direction (a side of about
// 2*widthKm). Grounded on
// original_source/lrtools/gps.py: square_around_location.
func squareAroundLocation(lat, lon, widthKm float64) GPSRect {
	deltaLat := (widthKm / 6378.0) * (180.0 / math.Pi)
	deltaLon := deltaLat / math.Cos(lat*math.Pi/180.0)
	lat1, lat2 := reorder(lat-deltaLat, lat+deltaLat)
	lon1, lon2 := reorder(lon-deltaLon, lon+deltaLon)
	return GPSRect{Lat1: lat1, Lat2: lat2, Lon1: lon1, Lon2: lon2}
}

// GPSPredicate parses the five gps criterion syntaxes and returns the
// resulting WHERE fragment against the given exif-metadata alias.
//
// photoLatLon, when non-nil, resolves a "photo:NAME" reference to its
// stored coordinates (used by the photo:NAME+radius syntax); geocoder
// resolves town names for the two town-name syntaxes.
func GPSPredicate(emAlias string, raw string, tc *TransformContext, photoLatLon func(name string) (float64, float64, error)) (string, error) {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "photo:") {
		rest := raw[len("photo:"):]
		idx := strings.LastIndex(rest, "+")
		if idx < 0 || photoLatLon == nil {
			return "", &BadValueError{Key: "gps", Value: raw}
		}
		name, widthStr := rest[:idx], rest[idx+1:]
		width, err := strconv.ParseFloat(widthStr, 64)
		if err != nil {
			return "", &BadValueError{Key: "gps", Value: raw, Err: err}
		}
		lat, lon, err := photoLatLon(name)
		if err != nil {
			return "", &BadValueError{Key: "gps", Value: raw, Err: err}
		}
		return gpsRectSQL(emAlias, squareAroundLocation(lat, lon, width)), nil
	}

	if idx := strings.Index(raw, ";"); idx >= 0 {
		if pidx := strings.Index(raw[idx+1:], "+"); pidx >= 0 {
			lat, err1 := strconv.ParseFloat(raw[:idx], 64)
			lon, err2 := strconv.ParseFloat(raw[idx+1:idx+1+pidx], 64)
			width, err3 := strconv.ParseFloat(raw[idx+1+pidx+1:], 64)
			if err1 == nil && err2 == nil && err3 == nil {
				return gpsRectSQL(emAlias, squareAroundLocation(lat, lon, width)), nil
			}
		}
		if sidx := strings.Index(raw, "/"); sidx >= 0 {
			second := raw[sidx+1:]
			if sc := strings.Index(second, ";"); sc >= 0 {
				lat1, e1 := strconv.ParseFloat(raw[:idx], 64)
				lon1, e2 := strconv.ParseFloat(raw[idx+1:sidx], 64)
				lat2, e3 := strconv.ParseFloat(second[:sc], 64)
				lon2, e4 := strconv.ParseFloat(second[sc+1:], 64)
				if e1 == nil && e2 == nil && e3 == nil && e4 == nil {
					la1, la2 := reorder(lat1, lat2)
					lo1, lo2 := reorder(lon1, lon2)
					return gpsRectSQL(emAlias, GPSRect{Lat1: la1, Lat2: la2, Lon1: lo1, Lon2: lo2}), nil
				}
			}
		}
	}

	if tc == nil || tc.Geocoder == nil {
		return "", &GeoFailureError{Address: raw, Err: fmt.Errorf("no geocoder configured")}
	}

	if idx := strings.LastIndex(raw, "+"); idx >= 0 {
		town, widthStr := raw[:idx], raw[idx+1:]
		width, err := strconv.ParseFloat(widthStr, 64)
		if err == nil {
			coords, _, err := tc.Geocoder.Geocode(tc.Ctx, town)
			if err != nil {
				return "", &GeoFailureError{Address: town, Err: err}
			}
			return gpsRectSQL(emAlias, squareAroundLocation(coords.Lat, coords.Lon, width)), nil
		}
	}

	if idx := strings.Index(raw, "/"); idx >= 0 {
		town1, town2 := raw[:idx], raw[idx+1:]
		c1, _, err := tc.Geocoder.Geocode(tc.Ctx, town1)
		if err != nil {
			return "", &GeoFailureError{Address: town1, Err: err}
		}
		c2, _, err := tc.Geocoder.Geocode(tc.Ctx, town2)
		if err != nil {
			return "", &GeoFailureError{Address: town2, Err: err}
		}
		lat1, lat2 := reorder(c1.Lat, c2.Lat)
		lon1, lon2 := reorder(c1.Lon, c2.Lon)
		return gpsRectSQL(emAlias, GPSRect{Lat1: lat1, Lat2: lat2, Lon1: lon1, Lon2: lon2}), nil
	}

	return "", &BadValueError{Key: "gps", Value: raw}
}

func gpsRectSQL(emAlias string, r GPSRect) string {
	return fmt.Sprintf(`(%s.hasGps = 1 AND %s.gpsLatitude BETWEEN %s AND %s AND %s.gpsLongitude BETWEEN %s AND %s)`,
		emAlias, emAlias, formatFloat(r.Lat1), formatFloat(r.Lat2), emAlias, formatFloat(r.Lon1), formatFloat(r.Lon2))
}

// HasKeywordsPredicate renders the haskeywords criterion as an
// EXISTS/NOT EXISTS subquery, so it needs no auxiliary join of its own.
func HasKeywordsPredicate(raw string) (string, error) {
	b, err := ToBool(raw)
	if err != nil {
		return "", &BadValueError{Key: "haskeywords", Value: raw, Err: err}
	}
	exists := "EXISTS"
	if !b {
		exists = "NOT EXISTS"
	}
	return fmt.Sprintf("%s (SELECT 1 FROM AgLibraryKeywordImage kwi WHERE kwi.image = i.id_local)", exists), nil
}

// PublishedPredicate renders the published-collection criterion.
func PublishedPredicate(raw string) string {
	if b, err := ToBool(raw); err == nil && b {
		return "i.id_local = pci.image"
	}
	return fmt.Sprintf(`(i.id_local = pci.image AND pc.name = "%s" COLLATE NOCASE)`, raw)
}
