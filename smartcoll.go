package lrcat

import (
	"fmt"
	"strings"
)

// SmartNode is one leaf of a decoded smart-collection description tree.
type SmartNode struct {
	Criteria string
	Operation string
	Value     string
	Value2    string
	Units     string
}

// SmartTree is a decoded smart-collection description: Combine governs
// how its top-level Nodes are joined.
type SmartTree struct {
	Combine string // "union" | "intersect"
	Nodes   []SmartNode
}

// DecodeSmartTree extracts a SmartTree from a generic decoded Node,
// isolating the smart translator from SmartBlobDecoder's raw shape.
func DecodeSmartTree(root Node) (SmartTree, error) {
	tree := SmartTree{Combine: "intersect"}
	if combine, ok := root.Child("combine"); ok {
		tree.Combine = combine.Value
	}
	for _, child := range root.Children {
		if child.Key == "combine" {
			continue
		}
		node := SmartNode{}
		if v, ok := child.Child("criteria"); ok {
			node.Criteria = v.Value
		}
		if v, ok := child.Child("operation"); ok {
			node.Operation = v.Value
		}
		if v, ok := child.Child("value"); ok {
			node.Value = v.Value
		}
		if v, ok := child.Child("value2"); ok {
			node.Value2 = v.Value
		}
		if v, ok := child.Child("_units"); ok {
			node.Units = v.Value
		}
		if node.Criteria == "" {
			continue
		}
		tree.Nodes = append(tree.Nodes, node)
	}
	if len(tree.Nodes) == 0 {
		return tree, &DecodeError{Err: fmt.Errorf("smart collection tree has no criteria nodes")}
	}
	return tree, nil
}

// SqlFragment is the structural intermediate the smart translator
// composes instead of the string-splicing the reference implementation
// uses (Design Notes §9).
type SqlFragment struct {
	Select   string
	Joins    []Join
	Where    string
	ExceptOf *SqlFragment
}

func (f SqlFragment) assemble() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(f.Select)
	b.WriteString(" FROM Adobe_images i")
	for _, j := range f.Joins {
		b.WriteString(" ")
		b.WriteString(j.sql())
	}
	if f.Where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(f.Where)
	}
	if f.ExceptOf != nil {
		b.WriteString(" EXCEPT ")
		b.WriteString(f.ExceptOf.assemble())
	}
	return b.String()
}

const smartDefaultSelect = baseExtExpr + " AS name"

func dedupJoins(joins []Join) []Join {
	seen := map[string]bool{}
	var out []Join
	for _, j := range joins {
		if !seen[j.key()] {
			seen[j.key()] = true
			out = append(out, j)
		}
	}
	return out
}

// SmartTranslator walks a decoded smart-collection tree and emits SQL
// using the photo compiler's column/join machinery (component F).
// Grounded on lrsmartcoll.py: SQLSmartColl.
type SmartTranslator struct {
	Keywords *KeywordHierarchy
	tc       *TransformContext
}

// NewSmartTranslator builds a SmartTranslator. kh may be nil if the
// caller never expects keyword criteria.
func NewSmartTranslator(tc *TransformContext, kh *KeywordHierarchy) *SmartTranslator {
	if tc == nil {
		tc = &TransformContext{Config: DefaultConfig(), Geocoder: NoneGeocoder{}}
	}
	return &SmartTranslator{Keywords: kh, tc: tc}
}

// Translate combines every node's base query per tree.Combine.
func (s *SmartTranslator) Translate(tree SmartTree) (*CompiledQuery, error) {
	var parts []string
	for _, n := range tree.Nodes {
		frag, err := s.translateNode(n)
		if err != nil {
			return nil, err
		}
		parts = append(parts, frag.assemble())
	}
	op := " UNION "
	if tree.Combine == "intersect" {
		op = " INTERSECT "
	}
	return &CompiledQuery{SQL: strings.Join(parts, op), ColumnNames: []string{"name"}}, nil
}

// translateNode dispatches on the criterion kind via enum-style switch,
// not the reference implementation's getattr(self, 'criteria_' + name).
func (s *SmartTranslator) translateNode(n SmartNode) (SqlFragment, error) {
	switch n.Criteria {
	case "all":
		return s.criteriaAll(n)
	case "aperture":
		return s.numericExif("em.aperture", []Join{joinExif()}, n, apertureExprOnly)
	case "aspectRatio":
		return s.criteriaAspectRatio(n)
	case "camera":
		return s.stringFamily("cam.value", []Join{joinExif(), joinCamera()}, n)
	case "captureTime":
		return s.criteriaCaptureTime(n)
	case "collection":
		return s.criteriaCollection(n)
	case "colorMode":
		return s.criteriaEquals("i.colorMode", nil, n)
	case "exif":
		return s.criteriaExifVar(n)
	case "fileFormat":
		return s.criteriaEquals("i.fileFormat", nil, n)
	case "filename":
		return s.stringFamily("fi.baseName", []Join{joinFile()}, n)
	case "flashFired":
		return s.criteriaBool("em.flashFired", []Join{joinExif()}, n)
	case "focalLength":
		return s.numericExif("em.focalLength", []Join{joinExif()}, n, func(r string) (string, error) { return r, nil })
	case "hasAdjustments":
		return s.criteriaHasAdjustments(n)
	case "hasGPSData":
		return s.criteriaBool("em.hasGPS", []Join{joinExif()}, n)
	case "iptc":
		return s.criteriaIPTC(n)
	case "isoSpeedRating":
		return s.numericExif("em.isoSpeedRating", []Join{joinExif()}, n, func(r string) (string, error) { return r, nil })
	case "keywords":
		return s.criteriaKeywords(n)
	case "labelColor", "labelText":
		return s.criteriaEquals("i.colorLabels", nil, n)
	case "lens":
		return s.stringFamily("lnz.value", []Join{joinExif(), joinLens()}, n)
	case "metadata":
		return s.criteriaEquals("adm.xmp", []Join{joinAdditional()}, n)
	case "metadataStatus":
		return s.criteriaMetadataStatus(n)
	case "rating":
		return s.criteriaRating(n)
	case "shutterSpeed":
		switch n.Operation {
		case "<":
			n.Operation = ">"
		case ">":
			n.Operation = "<"
		}
		return s.numericExif("em.shutterSpeed", []Join{joinExif()}, n, speedExprOnlyInverted(n.Operation))
	case "touchTime":
		return s.criteriaTouchTime(n)
	case "treatment":
		return s.criteriaEquals("adm.monochrome", []Join{joinAdditional()}, n)
	case "widthCropped":
		return s.numericExif("ds.croppedWidth", []Join{joinDevelopSettings()}, n, func(r string) (string, error) { return r, nil })
	case "heightCropped":
		return s.numericExif("ds.croppedHeight", []Join{joinDevelopSettings()}, n, func(r string) (string, error) { return r, nil })
	case "creator":
		return s.stringFamily("creator.value", []Join{joinHarvestedIPTC(), joinCreator()}, n)
	}
	return SqlFragment{}, &UnsupportedOperationError{Criterion: n.Criteria, Operation: n.Operation}
}

func joinDevelopSettings() Join {
	return Join{Table: "Adobe_imageDevelopSettings", Alias: "ds", On: "i.id_local = ds.image"}
}

func apertureExprOnly(raw string) (string, error) {
	full, err := Aperture("=" + raw)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(full, "= "), nil
}

func speedExprOnlyInverted(_ string) func(string) (string, error) {
	return func(raw string) (string, error) {
		full, err := Speed("=" + raw)
		if err != nil {
			return "", err
		}
		return strings.TrimPrefix(full, "= "), nil
	}
}

// numericExpr renders the numeric operation family: ==,!=,>,<,>=,<=,in.
func numericExpr(colExpr string, op, value, value2 string, transform func(string) (string, error)) (string, error) {
	if op == "in" {
		v1, err := transform(value)
		if err != nil {
			return "", err
		}
		v2, err := transform(value2)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s BETWEEN %s AND %s", colExpr, v1, v2), nil
	}
	sqlOp := op
	if sqlOp == "==" {
		sqlOp = "="
	}
	switch sqlOp {
	case "=", "!=", ">", "<", ">=", "<=":
	default:
		return "", &UnsupportedOperationError{Criterion: colExpr, Operation: op}
	}
	v, err := transform(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %s", colExpr, sqlOp, v), nil
}

func (s *SmartTranslator) numericExif(colExpr string, joins []Join, n SmartNode, transform func(string) (string, error)) (SqlFragment, error) {
	where, err := numericExpr(colExpr, n.Operation, n.Value, n.Value2, transform)
	if err != nil {
		return SqlFragment{}, err
	}
	return SqlFragment{Select: smartDefaultSelect, Joins: dedupJoins(append([]Join{joinFile()}, joins...)), Where: where}, nil
}

// stringFamily renders any, all, words, beginsWith, endsWith, noneOf, ==, !=.
func (s *SmartTranslator) stringFamily(colExpr string, joins []Join, n SmartNode) (SqlFragment, error) {
	base := SqlFragment{Select: smartDefaultSelect, Joins: dedupJoins(append([]Join{joinFile()}, joins...))}
	switch n.Operation {
	case "==":
		base.Where = fmt.Sprintf(`%s = "%s"`, colExpr, n.Value)
		return base, nil
	case "!=":
		base.Where = fmt.Sprintf(`%s <> "%s"`, colExpr, n.Value)
		return base, nil
	case "any", "all", "words", "beginsWith", "endsWith", "noneOf":
		words := strings.Fields(n.Value)
		var clauses []string
		combine := " OR "
		if n.Operation == "all" || n.Operation == "words" {
			combine = " AND "
		}
		for _, w := range words {
			negate := false
			if strings.HasPrefix(w, "!") {
				negate = true
				w = w[1:]
			}
			w = strings.TrimPrefix(w, "+")
			clause := fmt.Sprintf(`%s LIKE "%%%s%%"`, colExpr, w)
			if n.Operation == "beginsWith" {
				clause = fmt.Sprintf(`%s LIKE "%s%%"`, colExpr, w)
			}
			if n.Operation == "endsWith" {
				clause = fmt.Sprintf(`%s LIKE "%%%s"`, colExpr, w)
			}
			if negate || n.Operation == "noneOf" {
				clause = "NOT " + clause
			}
			clauses = append(clauses, clause)
		}
		base.Where = "(" + strings.Join(clauses, combine) + ")"
		return base, nil
	}
	return SqlFragment{}, &UnsupportedOperationError{Criterion: "string", Operation: n.Operation}
}

func (s *SmartTranslator) criteriaBool(colExpr string, joins []Join, n SmartNode) (SqlFragment, error) {
	zo, err := ZeroOne(n.Value)
	if err != nil {
		return SqlFragment{}, err
	}
	return SqlFragment{
		Select: smartDefaultSelect,
		Joins:  dedupJoins(append([]Join{joinFile()}, joins...)),
		Where:  fmt.Sprintf("%s %s %s", colExpr, sqlEqFromOp(n.Operation), zo),
	}, nil
}

func sqlEqFromOp(op string) string {
	if op == "!=" {
		return "<>"
	}
	return "="
}

func (s *SmartTranslator) criteriaEquals(colExpr string, joins []Join, n SmartNode) (SqlFragment, error) {
	return SqlFragment{
		Select: smartDefaultSelect,
		Joins:  dedupJoins(append([]Join{joinFile()}, joins...)),
		Where:  fmt.Sprintf(`%s %s "%s"`, colExpr, sqlEqFromOp(n.Operation), n.Value),
	}, nil
}

func (s *SmartTranslator) criteriaExifVar(n SmartNode) (SqlFragment, error) {
	return s.criteriaEquals(fmt.Sprintf("em.%s", n.Value), []Join{joinExif()}, n)
}

func (s *SmartTranslator) criteriaHasAdjustments(n SmartNode) (SqlFragment, error) {
	val := "1"
	if n.Operation == "isFalse" {
		val = "0"
	}
	return SqlFragment{
		Select: smartDefaultSelect,
		Joins:  dedupJoins([]Join{joinFile(), joinAdditional()}),
		Where:  fmt.Sprintf("adm.additionalInfoSet = %s", val),
	}, nil
}

func (s *SmartTranslator) criteriaAspectRatio(n SmartNode) (SqlFragment, error) {
	op := "="
	switch n.Value {
	case "square":
		op = "="
	case "portrait":
		op = "<"
	case "landscape":
		op = ">"
	default:
		return SqlFragment{}, &BadValueError{Key: "aspectRatio", Value: n.Value}
	}
	if n.Operation == "!=" {
		switch op {
		case "=":
			op = "<>"
		case "<":
			op = ">="
		case ">":
			op = "<="
		}
	}
	return SqlFragment{
		Select: smartDefaultSelect,
		Joins:  []Join{joinFile()},
		Where:  fmt.Sprintf("i.aspectRatioCache %s 1", op),
	}, nil
}

func (s *SmartTranslator) criteriaCaptureTime(n SmartNode) (SqlFragment, error) {
	frag := SqlFragment{Select: smartDefaultSelect, Joins: []Join{joinFile()}}
	switch n.Operation {
	case "in":
		frag.Where = fmt.Sprintf(`i.captureTime >= "%s" AND i.captureTime < DATE("%s", "+1 day")`, n.Value, n.Value2)
	case "inLast":
		unit := n.Units
		if unit == "" {
			unit = "day"
		}
		frag.Where = fmt.Sprintf(`i.captureTime >= DATE("now", "-%s %s")`, n.Value, unit)
	default:
		op := n.Operation
		if op == "==" {
			op = "="
		}
		frag.Where = fmt.Sprintf(`i.captureTime %s "%s"`, op, n.Value)
	}
	return frag, nil
}

func (s *SmartTranslator) criteriaTouchTime(n SmartNode) (SqlFragment, error) {
	frag := SqlFragment{Select: smartDefaultSelect, Joins: []Join{joinFile()}}
	op := n.Operation
	if op == "==" {
		op = "="
	}
	frag.Where = fmt.Sprintf("i.touchTime %s %s", op, n.Value)
	return frag, nil
}

func (s *SmartTranslator) criteriaRating(n SmartNode) (SqlFragment, error) {
	op := n.Operation
	if op == "==" {
		op = "="
	}
	where := fmt.Sprintf("i.rating %s %s", op, n.Value)
	if op == "<" || (op == "=" && n.Value == "0") {
		where = fmt.Sprintf("(i.rating IS NULL OR %s)", where)
	}
	return SqlFragment{Select: smartDefaultSelect, Joins: []Join{joinFile()}, Where: where}, nil
}

func (s *SmartTranslator) criteriaMetadataStatus(n SmartNode) (SqlFragment, error) {
	where, err := MetaStatusPredicate("adm", "i", n.Value)
	if err != nil {
		return SqlFragment{}, err
	}
	return SqlFragment{Select: smartDefaultSelect, Joins: dedupJoins([]Join{joinFile(), joinAdditional()}), Where: where}, nil
}

func (s *SmartTranslator) criteriaIPTC(n SmartNode) (SqlFragment, error) {
	return s.stringFamily(fmt.Sprintf("iptc.%s", n.Value2), []Join{joinIPTC()}, n)
}

// criteriaCollection mirrors criteriaKeywords' treatment for the Collection
// family: "all" joins one alias per whitespace-separated name so every one
// must be present on the same image, "noneOf" is the base query EXCEPT the
// matching one, and "empty"/"notEmpty" sidestep the join entirely with an
// EXISTS/NOT EXISTS subquery.
func (s *SmartTranslator) criteriaCollection(n SmartNode) (SqlFragment, error) {
	base := SqlFragment{
		Select: smartDefaultSelect,
		Joins: dedupJoins([]Join{joinFile(),
			{Table: "AgLibraryCollectionImage", Alias: "ci1", On: "i.id_local = ci1.image"},
			{Table: "AgLibraryCollection", Alias: "col1", On: "ci1.collection = col1.id_local"},
		}),
	}
	switch n.Operation {
	case "==":
		base.Where = fmt.Sprintf(`col1.name = "%s"`, n.Value)
		return base, nil
	case "beginsWith":
		base.Where = fmt.Sprintf(`col1.name LIKE "%s%%"`, n.Value)
		return base, nil
	case "endsWith":
		base.Where = fmt.Sprintf(`col1.name LIKE "%%%s"`, n.Value)
		return base, nil
	case "any":
		base.Where = fmt.Sprintf(`col1.name LIKE "%%%s%%"`, n.Value)
		return base, nil
	case "all":
		words := strings.Fields(n.Value)
		joins := []Join{joinFile()}
		var clauses []string
		for i, w := range words {
			ci, col := aliasN("ci", i+1), aliasN("col", i+1)
			joins = append(joins,
				Join{Table: "AgLibraryCollectionImage", Alias: ci, On: fmt.Sprintf("i.id_local = %s.image", ci)},
				Join{Table: "AgLibraryCollection", Alias: col, On: fmt.Sprintf("%s.collection = %s.id_local", ci, col)},
			)
			clauses = append(clauses, fmt.Sprintf(`%s.name LIKE "%%%s%%"`, col, w))
		}
		return SqlFragment{Select: smartDefaultSelect, Joins: dedupJoins(joins), Where: "(" + strings.Join(clauses, " AND ") + ")"}, nil
	case "noneOf":
		matching := base
		matching.Where = fmt.Sprintf(`col1.name LIKE "%%%s%%"`, n.Value)
		all := SqlFragment{Select: smartDefaultSelect, Joins: []Join{joinFile()}}
		all.ExceptOf = &matching
		return all, nil
	case "empty", "notEmpty":
		exists := "EXISTS"
		if n.Operation == "empty" {
			exists = "NOT EXISTS"
		}
		return SqlFragment{
			Select: smartDefaultSelect,
			Joins:  []Join{joinFile()},
			Where:  fmt.Sprintf("%s (SELECT 1 FROM AgLibraryCollectionImage ci1 WHERE ci1.image = i.id_local)", exists),
		}, nil
	}
	return SqlFragment{}, &UnsupportedOperationError{Criterion: "collection", Operation: n.Operation}
}

// criteriaKeywords expands a keyword-name match to every matching
// keyword's transitive subtree, then emits an IN(...) over keyword ids.
// "all" expands each whitespace-separated name on its own and joins one
// keyword-image alias per name; noneOf is rendered as an EXCEPT of the
// unrestricted base query against the same IN(...) query.
func (s *SmartTranslator) criteriaKeywords(n SmartNode) (SqlFragment, error) {
	if n.Operation == "empty" || n.Operation == "notEmpty" {
		exists := "EXISTS"
		if n.Operation == "empty" {
			exists = "NOT EXISTS"
		}
		return SqlFragment{
			Select: smartDefaultSelect,
			Joins:  []Join{joinFile()},
			Where:  fmt.Sprintf("%s (SELECT 1 FROM AgLibraryKeywordImage kwi1 WHERE kwi1.image = i.id_local)", exists),
		}, nil
	}
	if s.Keywords == nil {
		return SqlFragment{}, &UnsupportedOperationError{Criterion: "keywords", Operation: "(no keyword hierarchy loaded)"}
	}
	mode := KeywordMatchSubstring
	switch n.Operation {
	case "words":
		mode = KeywordMatchWholeWord
	case "beginsWith":
		mode = KeywordMatchPrefix
	case "endsWith":
		mode = KeywordMatchSuffix
	}
	if n.Operation == "all" {
		joins := []Join{joinFile()}
		var clauses []string
		for i, w := range strings.Fields(n.Value) {
			kwi := aliasN("kwi", i+1)
			joins = append(joins, Join{Table: "AgLibraryKeywordImage", Alias: kwi, On: fmt.Sprintf("i.id_local = %s.image", kwi)})
			clauses = append(clauses, fmt.Sprintf("%s.tag IN (%s)", kwi, joinInts(s.Keywords.ExpandIndexes(w, mode))))
		}
		return SqlFragment{Select: smartDefaultSelect, Joins: dedupJoins(joins), Where: "(" + strings.Join(clauses, " AND ") + ")"}, nil
	}
	ids := s.Keywords.ExpandIndexes(n.Value, mode)
	if len(ids) == 0 {
		return SqlFragment{Select: smartDefaultSelect, Joins: []Join{joinFile()}, Where: "0"}, nil
	}
	idList := joinInts(ids)
	join := []Join{joinFile(),
		{Table: "AgLibraryKeywordImage", Alias: "kwi1", On: "i.id_local = kwi1.image"},
	}
	inClause := fmt.Sprintf("kwi1.tag IN (%s)", idList)
	matching := SqlFragment{Select: smartDefaultSelect, Joins: dedupJoins(join), Where: inClause}

	if n.Operation == "noneOf" {
		all := SqlFragment{Select: smartDefaultSelect, Joins: []Join{joinFile()}}
		all.ExceptOf = &matching
		return all, nil
	}

	return matching, nil
}

// criteriaAll unions a LIKE across the metadata search index, filename,
// folder path, creator, caption and copyright. Collection names are not
// searched.
func (s *SmartTranslator) criteriaAll(n SmartNode) (SqlFragment, error) {
	joins := dedupJoins([]Join{
		joinFile(), joinFolder(), joinRootFolder(), joinSearchIndex(),
		joinHarvestedIPTC(), joinCreator(), joinIPTC(),
	})
	like := fmt.Sprintf("%%%s%%", n.Value)
	clauses := []string{
		fmt.Sprintf(`msi.searchIndex LIKE "%s"`, like),
		fmt.Sprintf(`fi.baseName LIKE "%s"`, like),
		fmt.Sprintf(`f.pathFromRoot LIKE "%s"`, like),
		fmt.Sprintf(`creator.value LIKE "%s"`, like),
		fmt.Sprintf(`iptc.caption LIKE "%s"`, like),
		fmt.Sprintf(`iptc.copyright LIKE "%s"`, like),
	}
	return SqlFragment{
		Select: smartDefaultSelect,
		Joins:  joins,
		Where:  "(" + strings.Join(clauses, " OR ") + ")",
	}, nil
}

func joinInts(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
