package lrcat

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// PhotoCompiler is the Generic Compiler bound to the photo main table,
// with the predefined query shapes the reference tool exposes over
// photos (component E). Grounded on lrselectphoto.py: LRSelectPhoto.
type PhotoCompiler struct {
	*Compiler
}

// NewPhotoCompiler builds a PhotoCompiler.
func NewPhotoCompiler(tc *TransformContext, logger *zap.SugaredLogger) *PhotoCompiler {
	c := NewCompiler(NewPhotoRegistry(), tc, logger)
	pc := &PhotoCompiler{Compiler: c}
	c.Predefined["count_by_date"] = pc.countByDate
	c.Predefined["duplicated_names"] = pc.duplicatedNames
	return pc
}

// Compile shadows the embedded Compiler.Compile to expand the filesize
// pseudo-column (§4.G): the Result Formatter needs a full path to stat, so
// name=full is added here when the columns carry no name entry. An
// explicitly selected name variant (e.g. name=base) is kept as is.
func (pc *PhotoCompiler) Compile(columns, criteria string, opts CompileOptions) (*CompiledQuery, error) {
	expanded, wantsFileSize := expandFileSizeColumn(columns)
	q, err := pc.Compiler.Compile(expanded, criteria, opts)
	if err != nil {
		return nil, err
	}
	q.FileSize = wantsFileSize
	return q, nil
}

func expandFileSizeColumn(columns string) (string, bool) {
	parts := strings.Split(columns, ",")
	wantsFileSize := false
	hasName := false
	kept := parts[:0]
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		switch {
		case trimmed == "filesize":
			wantsFileSize = true
			continue
		case trimmed == "name" || strings.HasPrefix(trimmed, "name="):
			hasName = true
		}
		kept = append(kept, p)
	}
	if !wantsFileSize {
		return columns, false
	}
	if !hasName {
		kept = append(kept, "name=full")
	}
	return strings.Join(kept, ","), true
}

// countByDate implements columns="count_by_date(from[,to])", grouping
// photo counts by calendar day over the ISO-formatted captureTime column.
func (pc *PhotoCompiler) countByDate(_ *Compiler, args string) (*CompiledQuery, error) {
	parts := strings.SplitN(args, ",", 2)
	from := strings.TrimSpace(parts[0])
	sql := fmt.Sprintf(
		`SELECT DATE(i.captureTime) AS day, COUNT(*) AS count FROM Adobe_images i WHERE DATE(i.captureTime) >= DATE("%s")`,
		from,
	)
	if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		sql += fmt.Sprintf(` AND DATE(i.captureTime) <= DATE("%s")`, strings.TrimSpace(parts[1]))
	}
	sql += " GROUP BY day ORDER BY day"
	return &CompiledQuery{SQL: sql, ColumnNames: []string{"day", "count"}}, nil
}

// duplicatedNames implements columns="duplicated_names()", returning
// every basename that occurs more than once case-insensitively.
func (pc *PhotoCompiler) duplicatedNames(_ *Compiler, _ string) (*CompiledQuery, error) {
	sql := `SELECT lower(fi.baseName) AS name, COUNT(*) AS count
		FROM AgLibraryFile fi
		GROUP BY lower(fi.baseName)
		HAVING COUNT(*) > 1
		ORDER BY name`
	return &CompiledQuery{SQL: sql, ColumnNames: []string{"name", "count"}}, nil
}
