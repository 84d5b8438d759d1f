package lrcat

import (
	"database/sql"
	"strings"
)

// Keyword represents a row in AgLibraryKeyword.
type Keyword struct {
	ID              int64
	UUID            string
	Name            string
	LCName          string
	ParentID        *int64
	Genealogy       string
	IncludeOnExport bool
}

func scanKeywordRow(scan func(dest ...any) error) (*Keyword, error) {
	kw := &Keyword{}
	var parentID sql.NullInt64
	var includeOnExport int
	if err := scan(&kw.ID, &kw.UUID, &kw.Name, &kw.LCName, &parentID, &kw.Genealogy, &includeOnExport); err != nil {
		return nil, err
	}
	if parentID.Valid {
		kw.ParentID = &parentID.Int64
	}
	kw.IncludeOnExport = includeOnExport == 1
	return kw, nil
}

// GetKeyword retrieves a keyword by its local id.
func (c *Catalog) GetKeyword(id int64) (*Keyword, error) {
	row := c.db.QueryRow(
		`SELECT id_local, id_global, name, lc_name, parent, genealogy, includeOnExport
		 FROM AgLibraryKeyword WHERE id_local = ?`,
		id,
	)
	kw, err := scanKeywordRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, &CatalogError{Op: "GetKeyword", Err: sql.ErrNoRows}
	}
	return kw, err
}

// GetKeywordByName retrieves a keyword by its name, case-insensitively.
func (c *Catalog) GetKeywordByName(name string) (*Keyword, error) {
	row := c.db.QueryRow(
		`SELECT id_local, id_global, name, lc_name, parent, genealogy, includeOnExport
		 FROM AgLibraryKeyword WHERE lc_name = ?`,
		strings.ToLower(name),
	)
	kw, err := scanKeywordRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return kw, err
}

// ListKeywords returns every keyword in the catalog, ordered by name.
func (c *Catalog) ListKeywords() ([]*Keyword, error) {
	rows, err := c.db.Query(
		`SELECT id_local, id_global, name, lc_name, parent, genealogy, includeOnExport
		 FROM AgLibraryKeyword ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keywords []*Keyword
	for rows.Next() {
		kw, err := scanKeywordRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}

// GetImageKeywords returns every keyword attached to an image.
func (c *Catalog) GetImageKeywords(imageID int64) ([]*Keyword, error) {
	rows, err := c.db.Query(
		`SELECT k.id_local, k.id_global, k.name, k.lc_name, k.parent, k.genealogy, k.includeOnExport
		 FROM AgLibraryKeyword k
		 JOIN AgLibraryKeywordImage ki ON k.id_local = ki.tag
		 WHERE ki.image = ?
		 ORDER BY k.name`,
		imageID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keywords []*Keyword
	for rows.Next() {
		kw, err := scanKeywordRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}

// GetKeywordImages returns every image tagged with a keyword.
func (c *Catalog) GetKeywordImages(keywordID int64) ([]*Image, error) {
	rows, err := c.db.Query(
		`SELECT i.id_local, i.id_global, i.rootFile, i.captureTime, i.rating, i.colorLabels, i.pick,
		        i.fileFormat, i.fileWidth, i.fileHeight, i.orientation
		 FROM Adobe_images i
		 JOIN AgLibraryKeywordImage ki ON i.id_local = ki.image
		 WHERE ki.tag = ?
		 ORDER BY i.captureTime`,
		keywordID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []*Image
	for rows.Next() {
		img, err := scanImageRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// KeywordHierarchy is an in-memory index of the keyword tree, built once and
// reused by the smart-collection translator's keyword-name expansion and by
// hosts that want to render keywords as slash-free pipe-joined paths
// (e.g. "Places|France|Paris").
//
// Grounded on original_source/lrtools/lrkeyword.py's LRKeywords class.
type KeywordHierarchy struct {
	byID       map[int64]string // id -> own name
	byParent   map[int64][]int64
	hierarchic map[int64]string // id -> "root|child|grandchild"
	rootID     int64
}

// BuildKeywordHierarchy loads the full keyword tree from the catalog.
func (c *Catalog) BuildKeywordHierarchy() (*KeywordHierarchy, error) {
	rows, err := c.db.Query(`SELECT id_local, name, parent FROM AgLibraryKeyword`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	h := &KeywordHierarchy{
		byID:     make(map[int64]string),
		byParent: make(map[int64][]int64),
	}
	for rows.Next() {
		var id int64
		var name sql.NullString
		var parent sql.NullInt64
		if err := rows.Scan(&id, &name, &parent); err != nil {
			return nil, err
		}
		h.byID[id] = name.String
		var p int64
		if parent.Valid {
			p = parent.Int64
		} else {
			h.rootID = id
		}
		h.byParent[p] = append(h.byParent[p], id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	h.hierarchic = make(map[int64]string)
	var build func(id int64, prefix string)
	build = func(id int64, prefix string) {
		for _, child := range h.byParent[id] {
			name := prefix
			if name != "" {
				name += "|"
			}
			name += h.byID[child]
			h.hierarchic[child] = name
			build(child, name)
		}
	}
	build(h.rootID, "")
	return h, nil
}

// Name returns a keyword's own (non-hierarchical) name.
func (h *KeywordHierarchy) Name(id int64) string {
	full := h.hierarchic[id]
	if idx := strings.LastIndex(full, "|"); idx >= 0 {
		return full[idx+1:]
	}
	return full
}

// HierarchicalName returns the pipe-joined ancestor chain for a keyword id.
func (h *KeywordHierarchy) HierarchicalName(id int64) string {
	return h.hierarchic[id]
}

// Children returns the direct child ids of a keyword id.
func (h *KeywordHierarchy) Children(id int64) []int64 {
	return h.byParent[id]
}

// descendants appends every transitive child id of id into out.
func (h *KeywordHierarchy) descendants(id int64, out []int64) []int64 {
	for _, child := range h.byParent[id] {
		out = append(out, child)
		out = h.descendants(child, out)
	}
	return out
}

// KeywordMatchMode selects how a base keyword name is matched against the tree
// before its subtree is expanded into an id list.
type KeywordMatchMode int

const (
	// KeywordMatchSubstring matches any keyword whose lowercase name
	// contains the base key as a substring.
	KeywordMatchSubstring KeywordMatchMode = iota
	// KeywordMatchWholeWord matches only keywords where the base key
	// appears as one whitespace-separated token.
	KeywordMatchWholeWord
	// KeywordMatchPrefix matches keywords with a token that begins with
	// the base key.
	KeywordMatchPrefix
	// KeywordMatchSuffix matches keywords with a token that ends with
	// the base key.
	KeywordMatchSuffix
)

// ExpandIndexes returns the id of every keyword matching baseKey under mode,
// plus every transitive descendant of each match — the set the
// smart-collection keywords criterion filters against.
//
// The original Python (lrkeyword.py: hierachical_indexes) takes a
// boolean-shaped "is_word" parameter but is actually called with the
// operation name itself; since any non-empty Python string is truthy, the
// whole-word branch is unconditionally taken and the intended
// substring/prefix/suffix branches are unreachable there. This
// implementation honors the differentiated behavior the matching modes
// above describe instead of replicating that dispatch bug.
func (h *KeywordHierarchy) ExpandIndexes(baseKey string, mode KeywordMatchMode) []int64 {
	lowerBase := strings.ToLower(baseKey)
	var matches []int64
	for id, name := range h.byID {
		lcName := strings.ToLower(name)
		if !strings.Contains(lcName, lowerBase) {
			continue
		}
		switch mode {
		case KeywordMatchWholeWord:
			if !tokenEquals(lcName, lowerBase) {
				continue
			}
		case KeywordMatchPrefix:
			if !tokenHasPrefix(lcName, lowerBase) {
				continue
			}
		case KeywordMatchSuffix:
			if !tokenHasSuffix(lcName, lowerBase) {
				continue
			}
		}
		matches = append(matches, id)
	}

	var indexes []int64
	for _, id := range matches {
		indexes = append(indexes, id)
		indexes = h.descendants(id, indexes)
	}
	return indexes
}

func tokenEquals(s, token string) bool {
	for _, w := range strings.Fields(s) {
		if w == token {
			return true
		}
	}
	return false
}

func tokenHasPrefix(s, prefix string) bool {
	for _, w := range strings.Fields(s) {
		if strings.HasPrefix(w, prefix) {
			return true
		}
	}
	return false
}

func tokenHasSuffix(s, suffix string) bool {
	for _, w := range strings.Fields(s) {
		if strings.HasSuffix(w, suffix) {
			return true
		}
	}
	return false
}
