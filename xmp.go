package lrcat

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
)

// XMPMetadata represents XMP metadata for an image
type XMPMetadata struct {
	ImageID int64
	XMP     string
}

// DecompressXMP decompresses XMP data from Lightroom's format
func DecompressXMP(data []byte) (string, error) {
	if len(data) < 4 {
		return "", nil
	}

	// Read uncompressed length from first 4 bytes (big-endian)
	// This is informational; we don't strictly need it for decompression
	_ = binary.BigEndian.Uint32(data[:4])

	// Decompress the rest using zlib
	reader := bytes.NewReader(data[4:])
	zr, err := zlib.NewReader(reader)
	if err != nil {
		return "", fmt.Errorf("failed to create zlib reader: %w", err)
	}
	defer zr.Close()

	decompressed, err := io.ReadAll(zr)
	if err != nil {
		return "", fmt.Errorf("failed to decompress XMP: %w", err)
	}

	return string(decompressed), nil
}

// GetXMP retrieves the XMP metadata for an image
func (c *Catalog) GetXMP(imageID int64) (string, error) {
	var data []byte
	err := c.db.QueryRow(
		`SELECT xmp FROM Adobe_AdditionalMetadata WHERE image = ?`,
		imageID,
	).Scan(&data)
	if err != nil {
		return "", fmt.Errorf("failed to get XMP: %w", err)
	}

	if len(data) == 0 {
		return "", nil
	}

	return DecompressXMP(data)
}

// ExtractXMPValue extracts a value from XMP content by key (e.g., "exif:DateTimeOriginal")
func ExtractXMPValue(xmp string, key string) string {
	// Look for key="value" pattern
	searchStr := key + `="`
	startIdx := bytes.Index([]byte(xmp), []byte(searchStr))
	if startIdx == -1 {
		return ""
	}

	startIdx += len(searchStr)
	endIdx := bytes.Index([]byte(xmp[startIdx:]), []byte(`"`))
	if endIdx == -1 {
		return ""
	}

	return xmp[startIdx : startIdx+endIdx]
}
