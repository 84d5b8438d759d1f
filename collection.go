package lrcat

import (
	"database/sql"
	"fmt"
	"time"
)

// CollectionType represents the type of collection
type CollectionType string

const (
	// CollectionTypeStandard is a regular collection
	CollectionTypeStandard CollectionType = "com.adobe.ag.library.collection"
	// CollectionTypeSmart is a smart collection
	CollectionTypeSmart CollectionType = "com.adobe.ag.library.smart_collection"
	// CollectionTypeGroup is a collection set/group
	CollectionTypeGroup CollectionType = "com.adobe.ag.library.group"
)

// Collection represents a collection in the Lightroom catalog
type Collection struct {
	ID         int64
	Name       string
	CreationID CollectionType
	ParentID   *int64
	Genealogy  string
	ImageCount *int
}

// GetCollection retrieves a collection by its ID
func (c *Catalog) GetCollection(id int64) (*Collection, error) {
	coll := &Collection{}
	var parentID sql.NullInt64
	var imageCount sql.NullInt64
	var creationID string

	err := c.db.QueryRow(
		`SELECT id_local, name, creationId, parent, genealogy, imageCount
		 FROM AgLibraryCollection WHERE id_local = ?`,
		id,
	).Scan(&coll.ID, &coll.Name, &creationID, &parentID, &coll.Genealogy, &imageCount)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("collection not found: %d", id)
		}
		return nil, err
	}

	coll.CreationID = CollectionType(creationID)
	if parentID.Valid {
		coll.ParentID = &parentID.Int64
	}
	if imageCount.Valid {
		count := int(imageCount.Int64)
		coll.ImageCount = &count
	}

	return coll, nil
}

// GetCollectionByName retrieves a collection by its name
func (c *Catalog) GetCollectionByName(name string) (*Collection, error) {
	coll := &Collection{}
	var parentID sql.NullInt64
	var imageCount sql.NullInt64
	var creationID string

	err := c.db.QueryRow(
		`SELECT id_local, name, creationId, parent, genealogy, imageCount
		 FROM AgLibraryCollection WHERE name = ?`,
		name,
	).Scan(&coll.ID, &coll.Name, &creationID, &parentID, &coll.Genealogy, &imageCount)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	coll.CreationID = CollectionType(creationID)
	if parentID.Valid {
		coll.ParentID = &parentID.Int64
	}
	if imageCount.Valid {
		count := int(imageCount.Int64)
		coll.ImageCount = &count
	}

	return coll, nil
}

// ListCollections returns every collection not flagged systemOnly, ordered by name
func (c *Catalog) ListCollections() ([]*Collection, error) {
	rows, err := c.db.Query(
		`SELECT id_local, name, creationId, parent, genealogy, imageCount
		 FROM AgLibraryCollection WHERE systemOnly = '' ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []*Collection
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
			count := int(imageCount.Int64)
			coll.ImageCount = &count
		}

		collections = append(collections, coll)
	}
	return collections, rows.Err()
}

// GetCollectionImages returns all images in a collection
func (c *Catalog) GetCollectionImages(collectionID int64) ([]*Image, error) {
	rows, err := c.db.Query(
		`SELECT i.id_local, i.id_global, i.rootFile, i.captureTime, i.rating, i.colorLabels, i.pick,
		        i.fileFormat, i.fileWidth, i.fileHeight, i.orientation
		 FROM Adobe_images i
		 JOIN AgLibraryCollectionImage ci ON i.id_local = ci.image
		 WHERE ci.collection = ?
		 ORDER BY ci.positionInCollection`,
		collectionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []*Image
	for rows.Next() {
		img := &Image{}
		var captureTimeStr sql.NullString
		var rating sql.NullInt64
		var width, height, orientation sql.NullInt64

		if err := rows.Scan(&img.ID, &img.UUID, &img.FileID, &captureTimeStr, &rating, &img.ColorLabel, &img.Pick,
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

		images = append(images, img)
	}
	return images, rows.Err()
}

// GetImageCollections returns all collections that contain an image
func (c *Catalog) GetImageCollections(imageID int64) ([]*Collection, error) {
	rows, err := c.db.Query(
		`SELECT c.id_local, c.name, c.creationId, c.parent, c.genealogy, c.imageCount
		 FROM AgLibraryCollection c
		 JOIN AgLibraryCollectionImage ci ON c.id_local = ci.collection
		 WHERE ci.image = ?
		 ORDER BY c.name`,
		imageID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []*Collection
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
			count := int(imageCount.Int64)
			coll.ImageCount = &count
		}

		collections = append(collections, coll)
	}
	return collections, rows.Err()
}

// parseTime is a helper to parse Lightroom time format
func parseTime(s string) (t time.Time, err error) {
	layouts := []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05.000",
		"2006-01-02T15:04:05-07:00",
	}
	for _, layout := range layouts {
		t, err = time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse time: %s", s)
}
