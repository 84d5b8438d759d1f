package lrcat

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"testing"
)

// compressXMPForTest mirrors Lightroom's on-disk XMP encoding (4-byte
// big-endian uncompressed length, then zlib) so DecompressXMP/GetXMP can be
// exercised without a writer-side API.
func compressXMPForTest(t *testing.T, xmp string) []byte {
	t.Helper()
	var body bytes.Buffer
	zw := zlib.NewWriter(&body)
	if _, err := zw.Write([]byte(xmp)); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}

	var out bytes.Buffer
	_ = binary.Write(&out, binary.BigEndian, uint32(len(xmp)))
	out.Write(body.Bytes())
	return out.Bytes()
}

func TestDecompressXMP(t *testing.T) {
	xmp := `<x:xmpmeta exif:DateTimeOriginal="2024-06-15"/>`
	data := compressXMPForTest(t, xmp)

	got, err := DecompressXMP(data)
	if err != nil {
		t.Fatalf("DecompressXMP: %v", err)
	}
	if got != xmp {
		t.Errorf("expected %q, got %q", xmp, got)
	}
}

func TestDecompressEmptyData(t *testing.T) {
	got, err := DecompressXMP(nil)
	if err != nil {
		t.Fatalf("DecompressXMP: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestDecompressShortData(t *testing.T) {
	got, err := DecompressXMP([]byte{1, 2, 3})
	if err != nil {
		t.Fatalf("DecompressXMP: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty string for short data, got %q", got)
	}
}

func TestGetXMP(t *testing.T) {
	xmp := `<x:xmpmeta exif:DateTimeOriginal="2024-06-15"/>`
	blob := compressXMPForTest(t, xmp)
	stmt := fmt.Sprintf(
		`INSERT INTO Adobe_AdditionalMetadata (id_local, id_global, image, xmp) VALUES (1, 'adm-1', 10, X'%s')`,
		hex.EncodeToString(blob),
	)
	catalog := newTestCatalog(t, stmt)

	got, err := catalog.GetXMP(10)
	if err != nil {
		t.Fatalf("GetXMP: %v", err)
	}
	if got != xmp {
		t.Errorf("expected %q, got %q", xmp, got)
	}
}

func TestGetXMPMissing(t *testing.T) {
	catalog := newTestCatalog(t)
	if _, err := catalog.GetXMP(999); err == nil {
		t.Error("expected error for missing XMP row")
	}
}

func TestExtractXMPValue(t *testing.T) {
	xmp := `<x:xmpmeta exif:DateTimeOriginal="2024-06-15" exif:Make="Canon"/>`

	if got := ExtractXMPValue(xmp, "exif:DateTimeOriginal"); got != "2024-06-15" {
		t.Errorf("expected 2024-06-15, got %q", got)
	}
	if got := ExtractXMPValue(xmp, "exif:Make"); got != "Canon" {
		t.Errorf("expected Canon, got %q", got)
	}
	if got := ExtractXMPValue(xmp, "exif:Missing"); got != "" {
		t.Errorf("expected empty string for missing key, got %q", got)
	}
}
