package lrcat

import (
	"testing"
	"time"
)

func TestOpenCatalog(t *testing.T) {
	catalog := newTestCatalog(t)

	version, err := catalog.GetDBVersion()
	if err != nil {
		t.Fatalf("Failed to get DB version: %v", err)
	}
	if version != schemaVersion {
		t.Errorf("Expected version %s, got %s", schemaVersion, version)
	}
}

func TestOpenNonExistentCatalog(t *testing.T) {
	_, err := OpenCatalog("/nonexistent/path/catalog.lrcat")
	if err == nil {
		t.Error("Expected error when opening non-existent catalog")
	}
}

func TestToLightroomTimestamp(t *testing.T) {
	ts := ToLightroomTimestamp(LightroomEpoch)
	if ts != 0 {
		t.Errorf("Expected 0 for epoch, got %f", ts)
	}

	testTime := time.Date(2024, 1, 15, 12, 30, 0, 0, time.UTC)
	ts = ToLightroomTimestamp(testTime)
	if ts <= 0 {
		t.Errorf("Expected positive timestamp, got %f", ts)
	}
}

func TestFromLightroomTimestamp(t *testing.T) {
	original := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	ts := ToLightroomTimestamp(original)
	recovered := FromLightroomTimestamp(ts)

	if !original.Equal(recovered) {
		t.Errorf("Round-trip failed: original %v, recovered %v", original, recovered)
	}
}

func TestFormatCaptureTime(t *testing.T) {
	testTime := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)
	formatted := FormatCaptureTime(testTime)
	expected := "2024-06-15T14:30:45"
	if formatted != expected {
		t.Errorf("Expected %s, got %s", expected, formatted)
	}
}

func TestNewUUID(t *testing.T) {
	uuid1 := NewUUID()
	uuid2 := NewUUID()

	if uuid1 == uuid2 {
		t.Error("UUIDs should be unique")
	}
	if len(uuid1) != 36 {
		t.Errorf("Expected UUID length 36, got %d", len(uuid1))
	}
}

func TestImageCount(t *testing.T) {
	catalog := newTestCatalog(t,
		`INSERT INTO Adobe_images (id_local, id_global, rootFile) VALUES (1, 'img-1', 1)`,
		`INSERT INTO Adobe_images (id_local, id_global, rootFile) VALUES (2, 'img-2', 2)`,
	)

	count, err := catalog.ImageCount()
	if err != nil {
		t.Fatalf("Failed to get image count: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 images, got %d", count)
	}
}

func TestFolderCount(t *testing.T) {
	catalog := newTestCatalog(t,
		`INSERT INTO AgLibraryRootFolder (id_local, id_global, absolutePath, name) VALUES (1, 'rf-1', '/photos/', 'photos')`,
		`INSERT INTO AgLibraryFolder (id_local, id_global, pathFromRoot, rootFolder) VALUES (1, 'f-1', '2024/', 1)`,
	)

	count, err := catalog.FolderCount()
	if err != nil {
		t.Fatalf("Failed to get folder count: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 folder, got %d", count)
	}
}

func TestRootFolderCount(t *testing.T) {
	catalog := newTestCatalog(t,
		`INSERT INTO AgLibraryRootFolder (id_local, id_global, absolutePath, name) VALUES (1, 'rf-1', '/photos/', 'photos')`,
	)

	count, err := catalog.RootFolderCount()
	if err != nil {
		t.Fatalf("Failed to get root folder count: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 root folder, got %d", count)
	}
}

func TestWithLogger(t *testing.T) {
	catalog := newTestCatalog(t)
	if got := catalog.WithLogger(nil); got != catalog {
		t.Error("WithLogger should return the same catalog for chaining")
	}
}
