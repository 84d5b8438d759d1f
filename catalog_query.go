package lrcat

import (
	"database/sql"
	"fmt"
	"strings"
)

// Execute runs a Compiler-produced query against the catalog and scans
// every result row into a slice of any, alongside the driver's column
// descriptors. This is the Catalog Facade's generic entry point
// (component H): it closes the D/E -> SQL -> H -> rows -> G pipeline,
// taking whatever SQL the Generic/Photo Compiler produced and handing
// back rows the Result Formatter (display.Render) can lay out. The
// request id used for log correlation is minted once, by
// Compiler.Compile, not here; Execute just logs it alongside the row
// count it produced for that same request.
func (c *Catalog) Execute(q *CompiledQuery) ([][]any, []string, error) {
	rows, err := c.db.Query(q.SQL)
	if err != nil {
		return nil, nil, &CatalogError{Op: "Execute", Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, &CatalogError{Op: "Execute", Err: err}
	}

	var out [][]any
	for rows.Next() {
		dest := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, &CatalogError{Op: "Execute", Err: err}
		}
		out = append(out, dest)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, &CatalogError{Op: "Execute", Err: err}
	}

	c.logger.Debugw("executed compiled query", "request_id", q.RequestID, "rows", len(out))
	return out, cols, nil
}

// CountByDateMode selects the calendar bucket count_by_date_sql groups by.
type CountByDateMode int

const (
	ByDay CountByDateMode = iota
	ByMonth
	ByYear
)

func (m CountByDateMode) sqliteFormat() string {
	switch m {
	case ByMonth:
		return "%Y-%m"
	case ByYear:
		return "%Y"
	default:
		return "%Y-%m-%d"
	}
}

// DuplicatesSQL returns the query text for (fullpath, count) pairs of
// non-video photos whose basename collides case-insensitively.
// Grounded on lrcat.py's duplicates query.
func (c *Catalog) DuplicatesSQL() string {
	return `SELECT rf.absolutePath || f.pathFromRoot || fi.baseName || "." || fi.extension AS fullpath, cnt.n AS count
		FROM Adobe_images i
		JOIN AgLibraryFile fi ON i.rootFile = fi.id_local
		JOIN AgLibraryFolder f ON fi.folder = f.id_local
		JOIN AgLibraryRootFolder rf ON f.rootFolder = rf.id_local
		JOIN (
			SELECT lower(baseName) AS lname, COUNT(*) AS n
			FROM AgLibraryFile
			GROUP BY lower(baseName)
			HAVING COUNT(*) > 1
		) cnt ON lower(fi.baseName) = cnt.lname
		WHERE i.fileFormat <> "VIDEO"
		ORDER BY fullpath`
}

// ImportsSQL returns the per-import date and image count query, optionally
// restricted to a single import id.
func (c *Catalog) ImportsSQL(id *int64) string {
	base := `SELECT imp.id_local AS id, imp.importDate AS date, imp.imageCount AS count, imp.name AS name
		FROM AgLibraryImport imp`
	if id != nil {
		return fmt.Sprintf("%s WHERE imp.id_local = %d", base, *id)
	}
	return base + " ORDER BY imp.importDate"
}

// CountByDateSQL groups photo counts into calendar buckets over
// captureTime. to, when empty, leaves the range open-ended.
func (c *Catalog) CountByDateSQL(mode CountByDateMode, from, to string) string {
	format := mode.sqliteFormat()
	sql := fmt.Sprintf(
		`SELECT strftime("%s", i.captureTime) AS bucket, COUNT(*) AS count
		FROM Adobe_images i
		WHERE i.captureTime >= "%s"`,
		format, from,
	)
	if to != "" {
		sql += fmt.Sprintf(` AND i.captureTime <= "%s"`, to)
	}
	return sql + " GROUP BY bucket ORDER BY bucket"
}

const smartBlobHeaderLen = 4

// SmartBlob fetches the persisted smart-collection bytes for a collection
// identified by id or name, stripping the fixed 4-byte header unless raw
// is requested. Grounded on lrcat.py's smart collection blob accessor.
func (c *Catalog) SmartBlob(nameOrID string, raw bool) ([]byte, error) {
	var content []byte
	var err error
	if id, convErr := parseID(nameOrID); convErr == nil {
		err = c.db.QueryRow(
			`SELECT cc.content FROM AgLibraryCollectionContent cc WHERE cc.collection = ?`, id,
		).Scan(&content)
	} else {
		err = c.db.QueryRow(
			`SELECT cc.content FROM AgLibraryCollectionContent cc
			 JOIN AgLibraryCollection col ON cc.collection = col.id_local
			 WHERE col.name = ?`, nameOrID,
		).Scan(&content)
	}
	if err != nil {
		return nil, &CatalogError{Op: "SmartBlob", Err: err}
	}
	if !raw && len(content) > smartBlobHeaderLen {
		return content[smartBlobHeaderLen:], nil
	}
	return content, nil
}

func parseID(s string) (int64, error) {
	var id int64
	_, err := fmt.Sscanf(s, "%d", &id)
	return id, err
}

// CollectionsOfType lists collections filtered by type; name, when it
// contains "%", is matched with LIKE, otherwise with exact equality.
func (c *Catalog) CollectionsOfType(kind CollectionType, name string) ([]*Collection, error) {
	query := `SELECT id_local, name, creationId, parent, genealogy, imageCount FROM AgLibraryCollection WHERE creationId = ?`
	args := []any{string(kind)}
	if name != "" {
		if strings.Contains(name, "%") {
			query += " AND name LIKE ?"
		} else {
			query += " AND name = ?"
		}
		args = append(args, name)
	}
	query += " ORDER BY name"

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, &CatalogError{Op: "CollectionsOfType", Err: err}
	}
	defer rows.Close()

	var out []*Collection
	for rows.Next() {
		coll := &Collection{}
		var parentID sql.NullInt64
		var imageCount sql.NullInt64
		var creationID string
		if err := rows.Scan(&coll.ID, &coll.Name, &creationID, &parentID, &coll.Genealogy, &imageCount); err != nil {
			return nil, err
		}
		coll.CreationID = CollectionType(creationID)
		if parentID.Valid {
			coll.ParentID = &parentID.Int64
		}
		if imageCount.Valid {
			n := int(imageCount.Int64)
			coll.ImageCount = &n
		}
		out = append(out, coll)
	}
	return out, rows.Err()
}

// GetExifMetadata projects the requested fields from AgHarvestedExifMetadata
// for the photo identified by id or basename.
func (c *Catalog) GetExifMetadata(nameOrID string, fields []string) (map[string]any, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields requested")
	}
	cols := strings.Join(fields, ", ")
	var query string
	var arg any
	if id, err := parseID(nameOrID); err == nil {
		query = fmt.Sprintf(`SELECT %s FROM AgHarvestedExifMetadata em WHERE em.image = ?`, cols)
		arg = id
	} else {
		query = fmt.Sprintf(`SELECT %s FROM AgHarvestedExifMetadata em
			JOIN Adobe_images i ON em.image = i.id_local
			JOIN AgLibraryFile fi ON i.rootFile = fi.id_local
			WHERE fi.baseName = ?`, cols)
		arg = nameOrID
	}

	dest := make([]any, len(fields))
	ptrs := make([]any, len(fields))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	if err := c.db.QueryRow(query, arg).Scan(ptrs...); err != nil {
		return nil, &CatalogError{Op: "GetExifMetadata", Err: err}
	}

	result := make(map[string]any, len(fields))
	for i, f := range fields {
		result[f] = dest[i]
	}
	return result, nil
}

// SelectVCopiesMaster returns the master image and all of its virtual
// copies, ordered by id, with the requested columns compiled through the
// Photo Compiler's column machinery.
func (c *Catalog) SelectVCopiesMaster(masterID int64, columns string, pc *PhotoCompiler) (*CompiledQuery, error) {
	criteria := fmt.Sprintf("family=%d,sort=id", masterID)
	return pc.Compile(columns, criteria, CompileOptions{})
}

// KeywordTreeRow is one raw (id, name, parent_id) row of the keyword
// hierarchy, as stored, before KeywordHierarchy builds its in-memory
// index from it.
type KeywordTreeRow struct {
	ID       int64
	Name     string
	ParentID *int64
}

// KeywordTree returns the raw keyword hierarchy rows.
func (c *Catalog) KeywordTree() ([]KeywordTreeRow, error) {
	rows, err := c.db.Query(`SELECT id_local, name, parent FROM AgLibraryKeyword`)
	if err != nil {
		return nil, &CatalogError{Op: "KeywordTree", Err: err}
	}
	defer rows.Close()

	var out []KeywordTreeRow
	for rows.Next() {
		var row KeywordTreeRow
		var parent sql.NullInt64
		if err := rows.Scan(&row.ID, &row.Name, &parent); err != nil {
			return nil, err
		}
		if parent.Valid {
			row.ParentID = &parent.Int64
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
