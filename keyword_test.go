package lrcat

import "testing"

func TestGetKeyword(t *testing.T) {
	catalog := newTestCatalog(t,
		`INSERT INTO AgLibraryKeyword (id_local, id_global, name, lc_name, genealogy, includeOnExport) VALUES (1, 'kw-1', 'Paris', 'paris', '1', 1)`,
	)

	kw, err := catalog.GetKeyword(1)
	if err != nil {
		t.Fatalf("GetKeyword: %v", err)
	}
	if kw.Name != "Paris" {
		t.Errorf("expected name Paris, got %s", kw.Name)
	}
	if !kw.IncludeOnExport {
		t.Error("expected IncludeOnExport true")
	}
}

func TestGetKeywordNotFound(t *testing.T) {
	catalog := newTestCatalog(t)
	if _, err := catalog.GetKeyword(999); err == nil {
		t.Error("expected error for missing keyword")
	}
}

func TestGetKeywordByName(t *testing.T) {
	catalog := newTestCatalog(t,
		`INSERT INTO AgLibraryKeyword (id_local, id_global, name, lc_name, genealogy) VALUES (1, 'kw-1', 'Paris', 'paris', '1')`,
	)

	kw, err := catalog.GetKeywordByName("PARIS")
	if err != nil {
		t.Fatalf("GetKeywordByName: %v", err)
	}
	if kw == nil || kw.ID != 1 {
		t.Fatalf("expected case-insensitive match, got %v", kw)
	}

	missing, err := catalog.GetKeywordByName("Nowhere")
	if err != nil {
		t.Fatalf("GetKeywordByName missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing keyword")
	}
}

func TestListKeywords(t *testing.T) {
	catalog := newTestCatalog(t,
		`INSERT INTO AgLibraryKeyword (id_local, id_global, name, lc_name, genealogy) VALUES (1, 'kw-1', 'Paris', 'paris', '1')`,
		`INSERT INTO AgLibraryKeyword (id_local, id_global, name, lc_name, genealogy) VALUES (2, 'kw-2', 'Berlin', 'berlin', '2')`,
	)

	keywords, err := catalog.ListKeywords()
	if err != nil {
		t.Fatalf("ListKeywords: %v", err)
	}
	if len(keywords) != 2 {
		t.Fatalf("expected 2 keywords, got %d", len(keywords))
	}
	if keywords[0].Name != "Berlin" {
		t.Errorf("expected alphabetical order, got %s first", keywords[0].Name)
	}
}

func TestGetImageKeywordsAndGetKeywordImages(t *testing.T) {
	catalog := newTestCatalog(t,
		`INSERT INTO Adobe_images (id_local, id_global, rootFile, fileFormat) VALUES (10, 'img-10', 1, 'JPG')`,
		`INSERT INTO AgLibraryKeyword (id_local, id_global, name, lc_name, genealogy) VALUES (1, 'kw-1', 'Paris', 'paris', '1')`,
		`INSERT INTO AgLibraryKeywordImage (image, tag) VALUES (10, 1)`,
	)

	keywords, err := catalog.GetImageKeywords(10)
	if err != nil {
		t.Fatalf("GetImageKeywords: %v", err)
	}
	if len(keywords) != 1 || keywords[0].Name != "Paris" {
		t.Fatalf("expected [Paris], got %v", keywords)
	}

	images, err := catalog.GetKeywordImages(1)
	if err != nil {
		t.Fatalf("GetKeywordImages: %v", err)
	}
	if len(images) != 1 || images[0].ID != 10 {
		t.Fatalf("expected image 10, got %v", images)
	}
}

func TestBuildKeywordHierarchy(t *testing.T) {
	catalog := newTestCatalog(t,
		`INSERT INTO AgLibraryKeyword (id_local, id_global, name, genealogy) VALUES (1, 'kw-root', '', '1')`,
		`INSERT INTO AgLibraryKeyword (id_local, id_global, name, genealogy, parent) VALUES (2, 'kw-places', 'Places', '1/2', 1)`,
		`INSERT INTO AgLibraryKeyword (id_local, id_global, name, genealogy, parent) VALUES (3, 'kw-france', 'France', '1/2/3', 2)`,
		`INSERT INTO AgLibraryKeyword (id_local, id_global, name, genealogy, parent) VALUES (4, 'kw-paris', 'Paris', '1/2/3/4', 3)`,
	)

	h, err := catalog.BuildKeywordHierarchy()
	if err != nil {
		t.Fatalf("BuildKeywordHierarchy: %v", err)
	}

	if got := h.HierarchicalName(4); got != "Places|France|Paris" {
		t.Errorf("expected Places|France|Paris, got %s", got)
	}
	if got := h.Name(4); got != "Paris" {
		t.Errorf("expected Paris, got %s", got)
	}
	if children := h.Children(2); len(children) != 1 || children[0] != 3 {
		t.Errorf("expected [3], got %v", children)
	}

	indexes := h.ExpandIndexes("france", KeywordMatchWholeWord)
	if len(indexes) != 2 {
		t.Fatalf("expected France + Paris, got %v", indexes)
	}
}
