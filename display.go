package lrcat

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// DisplayOptions controls the Result Formatter (component G).
type DisplayOptions struct {
	MaxLines  int // 0 prints no rows (only the total line when FileSize is set), <0 prints all, >0 caps the row count
	Header    bool
	Widths    map[string]int
	Separator string
	RawPrint  bool
	FileSize  bool
}

// DefaultDisplayOptions mirrors display.py's defaults.
func DefaultDisplayOptions() DisplayOptions {
	return DisplayOptions{MaxLines: -1, Header: true, Separator: "  "}
}

var defaultColumnWidths = map[string]int{
	"name": 30, "uuid": 36, "id": 8, "rating": 6, "colorlabel": 10,
	"flag": 10, "datecapt": 19, "datemod": 19, "camera": 24, "lens": 28,
	"aperture": 6, "speed": 10, "iso": 6, "focal": 6, "dims": 11,
	"keywords": 40, "filesize": 10,
}

func columnWidth(name string, overrides map[string]int) int {
	if overrides != nil {
		if w, ok := overrides[name]; ok {
			return w
		}
	}
	if w, ok := defaultColumnWidths[name]; ok {
		return w
	}
	return 20
}

// FormatAperture renders the Lightroom-stored 2*log2(N) value back to an
// F-number string. Inverse of the aperture value transformer.
func FormatAperture(raw float64) string {
	n := math.Pow(2, raw/2)
	return fmt.Sprintf("F%.1f", n)
}

// FormatSpeed renders the Lightroom-stored log2(1/seconds) value back to
// a shutter-speed string, either "1/N" or "N s".
func FormatSpeed(raw float64) string {
	seconds := 1 / math.Pow(2, raw)
	if seconds < 1 {
		return fmt.Sprintf("1/%d", int(math.Round(1/seconds)))
	}
	return fmt.Sprintf("%s s", strconv.FormatFloat(seconds, 'g', -1, 64))
}

// FormatISO renders a raw iso value as a plain integer string.
func FormatISO(raw float64) string {
	return strconv.Itoa(int(math.Round(raw)))
}

// FormatLRTimestamp renders LR-epoch seconds in local time, truncated to
// seconds.
func FormatLRTimestamp(raw float64) string {
	return FromLightroomTimestamp(raw).Local().Format("2006-01-02 15:04:05")
}

// FormatCaptureDate truncates an ISO-ish capture-time string to whole
// seconds, dropping any fractional component.
func FormatCaptureDate(raw string) string {
	if idx := strings.IndexByte(raw, '.'); idx >= 0 {
		return raw[:idx]
	}
	return raw
}

// FormatBool renders a nullable boolean-ish value as yes|no|?.
func FormatBool(raw any) string {
	switch v := raw.(type) {
	case nil:
		return "?"
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case int64:
		if v != 0 {
			return "yes"
		}
		return "no"
	case float64:
		if v != 0 {
			return "yes"
		}
		return "no"
	}
	return "?"
}

// FormatFlag renders the pick column as flagged|unflagged|rejected.
func FormatFlag(pick int) string {
	switch {
	case pick > 0:
		return "flagged"
	case pick < 0:
		return "rejected"
	default:
		return "unflagged"
	}
}

// FormatKeywords suppresses the literal "None" the driver returns for an
// image with no keywords joined.
func FormatKeywords(raw string) string {
	if raw == "None" {
		return ""
	}
	return raw
}

// FormatDuration renders a hex-encoded "num/den" ratio (video/live-photo
// duration) as [H:]MM:SS.d.
func FormatDuration(raw string) (string, error) {
	parts := strings.SplitN(raw, "/", 2)
	if len(parts) != 2 {
		return "", &BadValueError{Key: "duration", Value: raw, Err: fmt.Errorf("expected num/den")}
	}
	num, err1 := strconv.ParseInt(strings.TrimPrefix(parts[0], "0x"), 16, 64)
	den, err2 := strconv.ParseInt(strings.TrimPrefix(parts[1], "0x"), 16, 64)
	if err1 != nil || err2 != nil || den == 0 {
		return "", &BadValueError{Key: "duration", Value: raw, Err: fmt.Errorf("invalid hex ratio")}
	}
	seconds := float64(num) / float64(den)
	h := int(seconds) / 3600
	m := (int(seconds) % 3600) / 60
	s := seconds - float64(h*3600+m*60)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%04.1f", h, m, s), nil
	}
	return fmt.Sprintf("%02d:%04.1f", m, s), nil
}

// FormatFileSize renders a byte count with SI suffixes (base 1000).
func FormatFileSize(bytes int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(bytes)
	i := 0
	for size >= 1000 && i < len(units)-1 {
		size /= 1000
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d %s", bytes, units[0])
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}

// transformColumn maps a display column name to a raw-to-string
// converter, matching display.py's per-column transform table. Missing
// entries fall back to a plain %v conversion.
var transformColumn = map[string]func(any) (string, error){
	"aperture": func(v any) (string, error) { return numericTransform(v, FormatAperture) },
	"speed":    func(v any) (string, error) { return numericTransform(v, FormatSpeed) },
	"iso":      func(v any) (string, error) { return numericTransform(v, FormatISO) },
	"datecapt": func(v any) (string, error) { return stringTransform(v, FormatCaptureDate) },
	"datemod":  func(v any) (string, error) { return numericTransform(v, FormatLRTimestamp) },
	"pubtime":  func(v any) (string, error) { return numericTransform(v, FormatLRTimestamp) },
	"hasgps":   func(v any) (string, error) { return FormatBool(v), nil },
	"monochrome": func(v any) (string, error) { return FormatBool(v), nil },
	"flash":    func(v any) (string, error) { return FormatBool(v), nil },
	"flag":     func(v any) (string, error) { return flagTransform(v) },
	"keywords": func(v any) (string, error) { return stringTransform(v, FormatKeywords) },
	"duration": func(v any) (string, error) { return stringTransform(v, func(s string) string {
		formatted, err := FormatDuration(s)
		if err != nil {
			return s
		}
		return formatted
	}) },
}

func numericTransform(v any, f func(float64) string) (string, error) {
	n, ok := toFloat(v)
	if !ok {
		return fmt.Sprintf("%v", v), nil
	}
	return f(n), nil
}

func stringTransform(v any, f func(string) string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return fmt.Sprintf("%v", v), nil
	}
	return f(s), nil
}

func flagTransform(v any) (string, error) {
	n, ok := toFloat(v)
	if !ok {
		return "?", nil
	}
	return FormatFlag(int(n)), nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

// Render lays out rows according to opts, one space-padded line per row
// plus an optional header. When opts.FileSize is set, the "name" column
// (selected as name=full so it holds a stat-able path) grows a trailing
// filesize cell per row and a dataset total line at the end.
func Render(columns []string, rows [][]any, opts DisplayOptions) (string, error) {
	nameIdx := -1
	if opts.FileSize {
		nameIdx = nameColumnIndex(columns)
		if nameIdx < 0 {
			return "", fmt.Errorf("filesize requires the name column to be selected")
		}
	}

	if opts.MaxLines == 0 {
		if opts.FileSize {
			_, total := fileSizeColumn(rows, nameIdx)
			return fmt.Sprintf("Total filesize: %s\n", FormatFileSize(total)), nil
		}
		return "", nil
	}

	sep := opts.Separator
	if sep == "" {
		sep = "  "
	}

	var b strings.Builder
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = columnWidth(col, opts.Widths)
	}
	fsWidth := columnWidth("filesize", opts.Widths)

	if opts.Header {
		var header, rule []string
		for i, col := range columns {
			header = append(header, padTo(col, widths[i]))
			rule = append(rule, strings.Repeat("=", widths[i]))
		}
		if opts.FileSize {
			header = append(header, padTo("filesize", fsWidth))
			rule = append(rule, strings.Repeat("=", fsWidth))
		}
		b.WriteString(strings.Join(header, sep))
		b.WriteString("\n")
		b.WriteString(strings.Join(rule, sep))
		b.WriteString("\n")
	}

	limit := len(rows)
	if opts.MaxLines > 0 && opts.MaxLines < limit {
		limit = opts.MaxLines
	}

	var total int64
	for r := 0; r < limit; r++ {
		row := rows[r]
		var cells []string
		for i, col := range columns {
			var val any
			if i < len(row) {
				val = row[i]
			}
			text, err := formatCell(col, val, opts.RawPrint)
			if err != nil {
				return "", err
			}
			cells = append(cells, padTo(text, widths[i]))
		}
		if opts.FileSize {
			size, _ := statPathSize(row[nameIdx])
			total += size
			cells = append(cells, padTo(FormatFileSize(size), fsWidth))
		}
		b.WriteString(strings.Join(cells, sep))
		b.WriteString("\n")
	}

	if opts.FileSize {
		b.WriteString(fmt.Sprintf("Total filesize: %s\n", FormatFileSize(total)))
	}

	return b.String(), nil
}

func formatCell(col string, val any, raw bool) (string, error) {
	if val == nil {
		return "", nil
	}
	if raw {
		return fmt.Sprintf("%v", val), nil
	}
	if f, ok := transformColumn[col]; ok {
		return f(val)
	}
	return fmt.Sprintf("%v", val), nil
}

func padTo(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func nameColumnIndex(columns []string) int {
	for i, c := range columns {
		if c == "name" {
			return i
		}
	}
	return -1
}

func statPathSize(v any) (int64, bool) {
	path, ok := v.(string)
	if !ok {
		return 0, false
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return info.Size(), true
}

// fileSizeColumn computes a per-row size column alongside the dataset total.
func fileSizeColumn(rows [][]any, nameIdx int) ([]int64, int64) {
	sizes := make([]int64, len(rows))
	var total int64
	for i, row := range rows {
		size, _ := statPathSize(row[nameIdx])
		sizes[i] = size
		total += size
	}
	return sizes, total
}
