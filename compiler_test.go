package lrcat

import (
	"strings"
	"testing"
)

func newTestPhotoCompiler() *Compiler {
	return NewCompiler(NewPhotoRegistry(), nil, nil)
}

func TestCompileBareCriterion(t *testing.T) {
	c := newTestPhotoCompiler()
	q, err := c.Compile("name", "rating==5", CompileOptions{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(q.SQL, "i.rating =5") {
		t.Errorf("unexpected sql: %s", q.SQL)
	}
	if q.RequestID == "" {
		t.Error("expected a non-empty request id")
	}
}

func TestCompileAndOrPreservesParens(t *testing.T) {
	c := newTestPhotoCompiler()
	q, err := c.Compile("name", "(rating==5|rating==4),ext=jpg", CompileOptions{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(q.SQL, `(((i.rating =5 OR i.rating =4)) AND fi.extension = "jpg")`) {
		t.Errorf("expected parenthesized OR grouped with the AND term, got %s", q.SQL)
	}
}

func TestCompileSortDistinctGroupbyCount(t *testing.T) {
	c := newTestPhotoCompiler()
	q, err := c.Compile("name", "sort=-rating,distinct=true,groupby=camera,count=camera", CompileOptions{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(q.SQL, "ORDER BY rating DESC") {
		t.Errorf("expected ORDER BY rating DESC, got %s", q.SQL)
	}
	if !strings.Contains(q.SQL, "SELECT DISTINCT") {
		t.Errorf("expected DISTINCT, got %s", q.SQL)
	}
	if !strings.Contains(q.SQL, "GROUP BY cam.value") {
		t.Errorf("expected GROUP BY cam.value, got %s", q.SQL)
	}
	if !strings.Contains(q.SQL, "HAVING count(cam.value) > 0") {
		t.Errorf("expected HAVING clause, got %s", q.SQL)
	}
}

func TestCompileRepeatedCriterionGetsDistinctAliases(t *testing.T) {
	c := newTestPhotoCompiler()
	q, err := c.Compile("name", `keyword=paris,keyword=night`, CompileOptions{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(q.SQL, "kw1.name") || !strings.Contains(q.SQL, "kw2.name") {
		t.Errorf("expected distinct kw1/kw2 aliases, got %s", q.SQL)
	}
	if !strings.Contains(q.SQL, "JOIN AgLibraryKeywordImage kwi1") || !strings.Contains(q.SQL, "JOIN AgLibraryKeywordImage kwi2") {
		t.Errorf("expected two distinct keyword joins, got %s", q.SQL)
	}
}

func TestCompileUnknownCriterion(t *testing.T) {
	c := newTestPhotoCompiler()
	_, err := c.Compile("name", "bogus=1", CompileOptions{})
	if err == nil {
		t.Fatal("expected UnknownKeyError")
	}
	if ue, ok := err.(*UnknownKeyError); !ok || ue.Kind != "criterion" {
		t.Errorf("expected *UnknownKeyError for criterion, got %T (%v)", err, err)
	}
}

func TestCompileUnknownColumn(t *testing.T) {
	c := newTestPhotoCompiler()
	_, err := c.Compile("bogus", "rating==5", CompileOptions{})
	if _, ok := err.(*UnknownKeyError); !ok {
		t.Errorf("expected *UnknownKeyError for column, got %T (%v)", err, err)
	}
}

func TestCompileDefaultColumns(t *testing.T) {
	c := newTestPhotoCompiler()
	q, err := c.Compile("", "", CompileOptions{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(q.SQL, "SELECT fi.baseName || \".\" || fi.extension AS name FROM Adobe_images i") {
		t.Errorf("unexpected default-columns sql: %s", q.SQL)
	}
}

func TestCompilePredefinedHook(t *testing.T) {
	c := newTestPhotoCompiler()
	called := false
	c.Predefined["echo"] = func(_ *Compiler, args string) (*CompiledQuery, error) {
		called = true
		return &CompiledQuery{SQL: "SELECT " + args}, nil
	}
	q, err := c.Compile("echo(1)", "", CompileOptions{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !called {
		t.Error("expected predefined hook to be invoked")
	}
	if q.SQL != "SELECT 1" {
		t.Errorf("unexpected sql: %s", q.SQL)
	}
}

func TestCompileCountColumn(t *testing.T) {
	c := newTestPhotoCompiler()
	q, err := c.Compile("count(id)", "", CompileOptions{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(q.SQL, "count(i.id_local) AS count_id") {
		t.Errorf("unexpected sql: %s", q.SQL)
	}
}

func TestCompileTrailingTokensIsSyntaxError(t *testing.T) {
	c := newTestPhotoCompiler()
	_, err := c.Compile("name", "rating==5)", CompileOptions{})
	if _, ok := err.(*SyntaxError); !ok {
		t.Errorf("expected *SyntaxError, got %T (%v)", err, err)
	}
}
