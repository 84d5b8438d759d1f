package lrcat

import (
	"strings"
	"testing"
)

func TestDecodeSmartTree(t *testing.T) {
	root := Node{Children: []Node{
		{Key: "combine", Value: "union"},
		{Key: "0", Children: []Node{
			{Key: "criteria", Value: "rating"},
			{Key: "operation", Value: ">="},
			{Key: "value", Value: "3"},
		}},
	}}

	tree, err := DecodeSmartTree(root)
	if err != nil {
		t.Fatalf("DecodeSmartTree: %v", err)
	}
	if tree.Combine != "union" {
		t.Errorf("expected union, got %s", tree.Combine)
	}
	if len(tree.Nodes) != 1 || tree.Nodes[0].Criteria != "rating" {
		t.Fatalf("unexpected nodes: %+v", tree.Nodes)
	}
}

func TestDecodeSmartTreeNoCriteria(t *testing.T) {
	root := Node{Children: []Node{{Key: "combine", Value: "intersect"}}}
	if _, err := DecodeSmartTree(root); err == nil {
		t.Error("expected DecodeError for a tree with no criteria nodes")
	}
}

func TestSqlFragmentAssembleWithExcept(t *testing.T) {
	frag := SqlFragment{
		Select: "name",
		Where:  "1=1",
		ExceptOf: &SqlFragment{
			Select: "name",
			Where:  "kwi1.tag IN (1, 2)",
		},
	}
	sql := frag.assemble()
	if !strings.Contains(sql, "EXCEPT") {
		t.Errorf("expected EXCEPT composition, got %s", sql)
	}
	if strings.Count(sql, "SELECT name FROM Adobe_images i") != 2 {
		t.Errorf("expected both sides of the EXCEPT to select from Adobe_images, got %s", sql)
	}
}

func newTranslator() *SmartTranslator {
	return NewSmartTranslator(nil, nil)
}

func TestTranslateNodeNumeric(t *testing.T) {
	tr := newTranslator()
	tree := SmartTree{Combine: "intersect", Nodes: []SmartNode{
		{Criteria: "isoSpeedRating", Operation: ">=", Value: "400"},
	}}
	q, err := tr.Translate(tree)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if !strings.Contains(q.SQL, "em.isoSpeedRating >= 400") {
		t.Errorf("unexpected sql: %s", q.SQL)
	}
}

func TestTranslateNodeStringFamilyWords(t *testing.T) {
	tr := newTranslator()
	frag, err := tr.translateNode(SmartNode{Criteria: "filename", Operation: "words", Value: "sunset beach"})
	if err != nil {
		t.Fatalf("translateNode: %v", err)
	}
	if !strings.Contains(frag.Where, "AND") {
		t.Errorf("expected AND-combined word clauses, got %s", frag.Where)
	}
	if !strings.Contains(frag.Where, `fi.baseName LIKE "%sunset%"`) {
		t.Errorf("unexpected where: %s", frag.Where)
	}
}

func TestTranslateNodeApertureWrapsTransform(t *testing.T) {
	tr := newTranslator()
	frag, err := tr.translateNode(SmartNode{Criteria: "aperture", Operation: "==", Value: "2.8"})
	if err != nil {
		t.Fatalf("translateNode: %v", err)
	}
	if !strings.Contains(frag.Where, "em.aperture = ROUND(") {
		t.Errorf("unexpected where: %s", frag.Where)
	}
}

func TestTranslateNodeShutterSpeedInverted(t *testing.T) {
	tr := newTranslator()
	frag, err := tr.translateNode(SmartNode{Criteria: "shutterSpeed", Operation: ">", Value: "1/250"})
	if err != nil {
		t.Fatalf("translateNode: %v", err)
	}
	if !strings.Contains(frag.Where, "em.shutterSpeed <") {
		t.Errorf("expected > swapped to < on the log2 value, got %s", frag.Where)
	}
}

func TestTranslateNodeKeywordsEmptyNotEmpty(t *testing.T) {
	tr := newTranslator()
	empty, err := tr.translateNode(SmartNode{Criteria: "keywords", Operation: "empty"})
	if err != nil {
		t.Fatalf("translateNode: %v", err)
	}
	if !strings.HasPrefix(empty.Where, "NOT EXISTS") {
		t.Errorf("expected NOT EXISTS, got %s", empty.Where)
	}

	notEmpty, err := tr.translateNode(SmartNode{Criteria: "keywords", Operation: "notEmpty"})
	if err != nil {
		t.Fatalf("translateNode: %v", err)
	}
	if !strings.HasPrefix(notEmpty.Where, "EXISTS") {
		t.Errorf("expected EXISTS, got %s", notEmpty.Where)
	}
}

func TestTranslateNodeKeywordsNoneOfRequiresHierarchy(t *testing.T) {
	tr := newTranslator()
	if _, err := tr.translateNode(SmartNode{Criteria: "keywords", Operation: "noneOf", Value: "paris"}); err == nil {
		t.Error("expected UnsupportedOperationError without a loaded keyword hierarchy")
	}
}

func TestTranslateNodeKeywordsNoneOfExceptComposition(t *testing.T) {
	catalog := newTestCatalog(t,
		`INSERT INTO AgLibraryKeyword (id_local, id_global, name, genealogy) VALUES (1, 'kw-root', '', '1')`,
		`INSERT INTO AgLibraryKeyword (id_local, id_global, name, genealogy, parent) VALUES (2, 'kw-paris', 'Paris', '1/2', 1)`,
	)
	h, err := catalog.BuildKeywordHierarchy()
	if err != nil {
		t.Fatalf("BuildKeywordHierarchy: %v", err)
	}
	tr := NewSmartTranslator(nil, h)
	frag, err := tr.translateNode(SmartNode{Criteria: "keywords", Operation: "noneOf", Value: "paris"})
	if err != nil {
		t.Fatalf("translateNode: %v", err)
	}
	if frag.ExceptOf == nil {
		t.Fatal("expected noneOf to produce an EXCEPT fragment")
	}
	if !strings.Contains(frag.ExceptOf.Where, "kwi1.tag IN (2)") {
		t.Errorf("unexpected except where: %s", frag.ExceptOf.Where)
	}
}

func TestTranslateNodeCollectionAll(t *testing.T) {
	tr := newTranslator()
	frag, err := tr.translateNode(SmartNode{Criteria: "collection", Operation: "all", Value: "Paris Trips"})
	if err != nil {
		t.Fatalf("translateNode: %v", err)
	}
	if !strings.Contains(frag.Where, "AND") {
		t.Errorf("expected AND-combined collection clauses, got %s", frag.Where)
	}
	if !strings.Contains(frag.Where, `col1.name LIKE "%Paris%"`) || !strings.Contains(frag.Where, `col2.name LIKE "%Trips%"`) {
		t.Errorf("expected one aliased join per name, got %s", frag.Where)
	}
}

func TestTranslateNodeCollectionNoneOf(t *testing.T) {
	tr := newTranslator()
	frag, err := tr.translateNode(SmartNode{Criteria: "collection", Operation: "noneOf", Value: "Paris"})
	if err != nil {
		t.Fatalf("translateNode: %v", err)
	}
	if frag.ExceptOf == nil {
		t.Fatal("expected noneOf to produce an EXCEPT fragment")
	}
	if !strings.Contains(frag.ExceptOf.Where, `col1.name LIKE "%Paris%"`) {
		t.Errorf("unexpected except where: %s", frag.ExceptOf.Where)
	}
}

func TestTranslateNodeCollectionEmptyNotEmpty(t *testing.T) {
	tr := newTranslator()
	empty, err := tr.translateNode(SmartNode{Criteria: "collection", Operation: "empty"})
	if err != nil {
		t.Fatalf("translateNode: %v", err)
	}
	if !strings.HasPrefix(empty.Where, "NOT EXISTS") {
		t.Errorf("expected NOT EXISTS, got %s", empty.Where)
	}

	notEmpty, err := tr.translateNode(SmartNode{Criteria: "collection", Operation: "notEmpty"})
	if err != nil {
		t.Fatalf("translateNode: %v", err)
	}
	if !strings.HasPrefix(notEmpty.Where, "EXISTS") {
		t.Errorf("expected EXISTS, got %s", notEmpty.Where)
	}
}

func TestTranslateNodeUnsupportedCriterion(t *testing.T) {
	tr := newTranslator()
	if _, err := tr.translateNode(SmartNode{Criteria: "nope", Operation: "=="}); err == nil {
		t.Error("expected UnsupportedOperationError for unknown criteria")
	}
}
