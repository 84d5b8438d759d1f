package lrcat

import (
	"context"
	"strings"
	"testing"
)

func TestSplitOperator(t *testing.T) {
	cases := map[string][2]string{
		">5":   {">", "5"},
		"<=10": {"<=", "10"},
		"!=3":  {"!=", "3"},
		"==4":  {"=", "4"},
		"7":    {"=", "7"},
	}
	for raw, want := range cases {
		op, rest := splitOperator(raw)
		if op != want[0] || rest != want[1] {
			t.Errorf("splitOperator(%q) = (%q, %q), want (%q, %q)", raw, op, rest, want[0], want[1])
		}
	}
}

func TestParseDateYear(t *testing.T) {
	sql, err := ParseDate("i.captureTime", "2024", false)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !strings.Contains(sql, `DATE("2024-01-01")`) {
		t.Errorf("expected year-bucket comparison, got %s", sql)
	}
}

func TestParseDateDay(t *testing.T) {
	sql, err := ParseDate("i.captureTime", ">2024-06-15", false)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !strings.Contains(sql, ">") || !strings.Contains(sql, `2024-06-15`) {
		t.Errorf("unexpected sql: %s", sql)
	}
}

func TestParseDateInvalid(t *testing.T) {
	if _, err := ParseDate("i.captureTime", "not-a-date", false); err == nil {
		t.Error("expected error for unparsable date")
	}
}

func TestParseDateDayFirstToggle(t *testing.T) {
	monthFirst, err := ParseDate("i.captureTime", "03/04/2024", false)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !strings.Contains(monthFirst, `2024-03-04`) {
		t.Errorf("expected month-first parse of 03/04 as March 4, got %s", monthFirst)
	}

	dayFirst, err := ParseDate("i.captureTime", "03/04/2024", true)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !strings.Contains(dayFirst, `2024-04-03`) {
		t.Errorf("expected day-first parse of 03/04 as April 3, got %s", dayFirst)
	}
	if monthFirst == dayFirst {
		t.Errorf("expected dayFirst to change ambiguous-date parsing, both got %s", monthFirst)
	}
}

func TestDateToLRStampRequiresTimezoneWhenNotUTC(t *testing.T) {
	if _, err := DateToLRStamp("adm.lastSynchronizedTimestamp", "2024-06-15T10:00:00", false, false); err == nil {
		t.Error("expected BadValueError for local date without timezone")
	}
}

func TestDateToLRStampAcceptsUTC(t *testing.T) {
	sql, err := DateToLRStamp("adm.lastSynchronizedTimestamp", "2024-06-15T10:00:00", false, true)
	if err != nil {
		t.Fatalf("DateToLRStamp: %v", err)
	}
	if !strings.HasPrefix(sql, "adm.lastSynchronizedTimestamp =") {
		t.Errorf("unexpected sql: %s", sql)
	}
}

func TestToBool(t *testing.T) {
	for _, v := range []string{"true", "1", "yes", "TRUE"} {
		if b, err := ToBool(v); err != nil || !b {
			t.Errorf("ToBool(%q) = %v, %v; want true, nil", v, b, err)
		}
	}
	for _, v := range []string{"false", "0", "no"} {
		if b, err := ToBool(v); err != nil || b {
			t.Errorf("ToBool(%q) = %v, %v; want false, nil", v, b, err)
		}
	}
	if _, err := ToBool("maybe"); err == nil {
		t.Error("expected error for invalid bool")
	}
}

func TestBoolToEqual(t *testing.T) {
	if op, err := BoolToEqual("true"); err != nil || op != "=" {
		t.Errorf("BoolToEqual(true) = %q, %v", op, err)
	}
	if op, err := BoolToEqual("false"); err != nil || op != "!=" {
		t.Errorf("BoolToEqual(false) = %q, %v", op, err)
	}
}

func TestZeroOne(t *testing.T) {
	if v, err := ZeroOne("true"); err != nil || v != "1" {
		t.Errorf("ZeroOne(true) = %q, %v", v, err)
	}
	if v, err := ZeroOne("0"); err != nil || v != "0" {
		t.Errorf("ZeroOne(0) = %q, %v", v, err)
	}
	if _, err := ZeroOne("bogus"); err == nil {
		t.Error("expected error for invalid zero/one value")
	}
}

func TestValueOrNull(t *testing.T) {
	if got := ValueOrNull("i.orientation", "null"); got != "i.orientation IS NULL" {
		t.Errorf("unexpected: %s", got)
	}
	if got := ValueOrNull("i.orientation", "!null"); got != "i.orientation NOT NULL" {
		t.Errorf("unexpected: %s", got)
	}
	if got := ValueOrNull("i.orientation", "AB"); got != `i.orientation = "AB"` {
		t.Errorf("unexpected: %s", got)
	}
}

func TestRating(t *testing.T) {
	sql, err := Rating("i.rating", "=0")
	if err != nil {
		t.Fatalf("Rating: %v", err)
	}
	if sql != "i.rating IS NULL" {
		t.Errorf("expected NULL fallback for rating=0, got %s", sql)
	}

	sql, err = Rating("i.rating", ">=3")
	if err != nil {
		t.Fatalf("Rating: %v", err)
	}
	if sql != "i.rating >=3" {
		t.Errorf("unexpected: %s", sql)
	}

	if _, err := Rating("i.rating", "garbage"); err == nil {
		t.Error("expected error for non-numeric rating")
	}
}

func TestAperture(t *testing.T) {
	sql, err := Aperture("=F2.8")
	if err != nil {
		t.Fatalf("Aperture: %v", err)
	}
	if !strings.HasPrefix(sql, "= ROUND(") {
		t.Errorf("unexpected: %s", sql)
	}
}

func TestApertureInvalid(t *testing.T) {
	if _, err := Aperture("=notanumber"); err == nil {
		t.Error("expected error for invalid aperture")
	}
}

func TestSpeedInversion(t *testing.T) {
	lt, err := Speed("<1/250")
	if err != nil {
		t.Fatalf("Speed: %v", err)
	}
	if !strings.HasPrefix(lt, ">") {
		t.Errorf("expected < to invert to >, got %s", lt)
	}

	gt, err := Speed(">2")
	if err != nil {
		t.Fatalf("Speed: %v", err)
	}
	if !strings.HasPrefix(gt, "<") {
		t.Errorf("expected > to invert to <, got %s", gt)
	}
}

func TestMetaStatusPredicateCaseInsensitive(t *testing.T) {
	lower, err := MetaStatusPredicate("adm", "i", "changedondisk")
	if err != nil {
		t.Fatalf("MetaStatusPredicate: %v", err)
	}
	camel, err := MetaStatusPredicate("adm", "i", "changedOnDisk")
	if err != nil {
		t.Fatalf("MetaStatusPredicate: %v", err)
	}
	if lower != camel {
		t.Errorf("expected case-insensitive match: %q != %q", lower, camel)
	}
}

func TestStacksPredicate(t *testing.T) {
	sql, err := StacksPredicate("fsi", "top")
	if err != nil {
		t.Fatalf("StacksPredicate: %v", err)
	}
	if sql != "fsi.position=1.0" {
		t.Errorf("unexpected: %s", sql)
	}

	sql, err = StacksPredicate("fsi", "3")
	if err != nil {
		t.Fatalf("StacksPredicate: %v", err)
	}
	if sql != "fsi.stack = 3" {
		t.Errorf("unexpected: %s", sql)
	}
}

func TestSearchIndexLike(t *testing.T) {
	sql := SearchIndexLike("msi.exifSearchIndex", "canon nikon")
	if !strings.Contains(sql, " AND ") {
		t.Errorf("expected default AND combination, got %s", sql)
	}
	if !strings.Contains(sql, SearchIndexDelimiter+"canon"+SearchIndexDelimiter) {
		t.Errorf("expected delimiter-wrapped term, got %s", sql)
	}

	orSQL := SearchIndexLike("msi.exifSearchIndex", "canon|nikon")
	if !strings.Contains(orSQL, " OR ") {
		t.Errorf("expected OR combination, got %s", orSQL)
	}
}

func TestSquareAroundLocation(t *testing.T) {
	rect := squareAroundLocation(48.8566, 2.3522, 10)
	if rect.Lat1 >= rect.Lat2 || rect.Lon1 >= rect.Lon2 {
		t.Errorf("expected normalized rectangle, got %+v", rect)
	}
}

func TestGPSPredicateExplicitRect(t *testing.T) {
	tc := &TransformContext{Ctx: context.Background(), Config: DefaultConfig(), Geocoder: NoneGeocoder{}}
	sql, err := GPSPredicate("em", "48.8;2.3/48.9;2.4", tc, nil)
	if err != nil {
		t.Fatalf("GPSPredicate: %v", err)
	}
	if !strings.Contains(sql, "em.gpsLatitude BETWEEN") {
		t.Errorf("unexpected: %s", sql)
	}
}

func TestGPSPredicateTownWithoutGeocoder(t *testing.T) {
	tc := &TransformContext{Ctx: context.Background(), Config: DefaultConfig(), Geocoder: NoneGeocoder{}}
	if _, err := GPSPredicate("em", "Paris+10", tc, nil); err == nil {
		t.Error("expected GeoFailureError without a configured geocoder")
	}
}

func TestHasKeywordsPredicate(t *testing.T) {
	yes, err := HasKeywordsPredicate("true")
	if err != nil {
		t.Fatalf("HasKeywordsPredicate: %v", err)
	}
	if !strings.HasPrefix(yes, "EXISTS") {
		t.Errorf("expected EXISTS clause, got %s", yes)
	}

	no, err := HasKeywordsPredicate("false")
	if err != nil {
		t.Fatalf("HasKeywordsPredicate: %v", err)
	}
	if !strings.HasPrefix(no, "NOT EXISTS") {
		t.Errorf("expected NOT EXISTS clause, got %s", no)
	}
}

func TestPublishedPredicate(t *testing.T) {
	if got := PublishedPredicate("true"); got != "i.id_local = pci.image" {
		t.Errorf("unexpected: %s", got)
	}
	if got := PublishedPredicate("My Publish"); !strings.Contains(got, `pc.name = "My Publish"`) {
		t.Errorf("unexpected: %s", got)
	}
}
