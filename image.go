package lrcat

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Image represents a photo or video row from Adobe_images, as read back
// by the query compiler's canned convenience lookups.
type Image struct {
	ID          int64
	UUID        string
	FileID      int64
	FolderID    int64
	CaptureTime time.Time
	Rating      *int
	ColorLabel  string
	Pick        int
	FileFormat  string
	Width       *int
	Height      *int
	Orientation *int
}

// ImageFile represents a file record in AgLibraryFile.
type ImageFile struct {
	ID               int64
	UUID             string
	FolderID         int64
	BaseName         string
	Extension        string
	OriginalFilename string
}

func scanImageRow(scan func(dest ...any) error) (*Image, error) {
	img := &Image{}
	var captureTimeStr sql.NullString
	var rating sql.NullInt64
	var width, height, orientation sql.NullInt64

	if err := scan(&img.ID, &img.UUID, &img.FileID, &captureTimeStr, &rating, &img.ColorLabel, &img.Pick,
		&img.FileFormat, &width, &height, &orientation); err != nil {
		return nil, err
	}

	if captureTimeStr.Valid {
		img.CaptureTime, _ = parseTime(captureTimeStr.String)
	}
	if rating.Valid {
		r := int(rating.Int64)
		img.Rating = &r
	}
	if width.Valid {
		w := int(width.Int64)
		img.Width = &w
	}
	if height.Valid {
		h := int(height.Int64)
		img.Height = &h
	}
	if orientation.Valid {
		o := int(orientation.Int64)
		img.Orientation = &o
	}
	return img, nil
}

// GetImage retrieves an image by its local id.
func (c *Catalog) GetImage(id int64) (*Image, error) {
	row := c.db.QueryRow(
		`SELECT i.id_local, i.id_global, i.rootFile, i.captureTime, i.rating, i.colorLabels, i.pick,
		        i.fileFormat, i.fileWidth, i.fileHeight, i.orientation
		 FROM Adobe_images i WHERE i.id_local = ?`,
		id,
	)
	img, err := scanImageRow(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("image not found: %d", id)
		}
		return nil, err
	}
	return img, nil
}

// ListImages returns every image in the catalog ordered by capture time.
func (c *Catalog) ListImages() ([]*Image, error) {
	rows, err := c.db.Query(
		`SELECT i.id_local, i.id_global, i.rootFile, i.captureTime, i.rating, i.colorLabels, i.pick,
		        i.fileFormat, i.fileWidth, i.fileHeight, i.orientation
		 FROM Adobe_images i ORDER BY i.captureTime`,
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

// ImageExists reports whether a file path is already referenced by the catalog.
func (c *Catalog) ImageExists(filePath string) (bool, error) {
	absPath := normalizePath(filePath)
	filename := filepath.Base(absPath)

	var count int
	err := c.db.QueryRow(
		`SELECT COUNT(*) FROM AgLibraryFile f
		 JOIN AgLibraryFolder fo ON f.folder = fo.id_local
		 JOIN AgLibraryRootFolder rf ON fo.rootFolder = rf.id_local
		 WHERE rf.absolutePath || fo.pathFromRoot || f.baseName || '.' || f.extension = ?`,
		absPath,
	).Scan(&count)
	if err != nil {
		return false, err
	}

	if count == 0 {
		err = c.db.QueryRow(
			`SELECT COUNT(*) FROM AgLibraryFile f WHERE f.originalFilename = ?`,
			filename,
		).Scan(&count)
	}

	return count > 0, err
}

// HasBasename reports whether any file in the catalog has the given base
// name, matched case-insensitively.
func (c *Catalog) HasBasename(name string) (bool, error) {
	var found string
	err := c.db.QueryRow(
		`SELECT baseName FROM AgLibraryFile WHERE baseName = ? COLLATE NOCASE`,
		name,
	).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// detectFileFormat determines the Lightroom file format from an extension;
// kept for ImageExists-adjacent callers that classify files by suffix.
func detectFileFormat(ext string) string {
	switch strings.ToUpper(ext) {
	case "JPG", "JPEG":
		return "JPG"
	case "PNG":
		return "PNG"
	case "TIFF", "TIF":
		return "TIFF"
	case "PSD":
		return "PSD"
	case "DNG":
		return "DNG"
	case "CR2", "CR3", "NEF", "ARW", "ORF", "RAF", "RW2", "PEF", "SRW":
		return "RAW"
	case "MP4", "MOV", "AVI", "MKV":
		return "VIDEO"
	default:
		return "JPG"
	}
}
