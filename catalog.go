// Package lrcat provides read-only querying of Adobe Lightroom Classic
// catalog files (.lrcat).
//
// Lightroom catalogs are SQLite databases containing references to images,
// their metadata, develop settings, collections, and more.
package lrcat

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// LightroomEpoch is the reference date for Lightroom timestamps (2001-01-01 00:00:00 UTC)
var LightroomEpoch = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

// Catalog represents a read-only handle on a Lightroom catalog database.
type Catalog struct {
	db     *sql.DB
	path   string
	logger *zap.SugaredLogger
}

func nopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// OpenCatalog opens an existing Lightroom catalog read-only. The catalog is
// opened with mode=ro&cache=private&immutable=1 so it can be read even while
// Lightroom itself holds the same file open; this query layer never writes,
// so there is no writable-mode option to offer.
func OpenCatalog(path string) (*Catalog, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &CatalogError{Op: "open", Path: path, Err: fmt.Errorf("catalog does not exist")}
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&cache=private&immutable=1", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, &CatalogError{Op: "open", Path: path, Err: err}
	}

	catalog := &Catalog{
		db:     db,
		path:   path,
		logger: nopLogger(),
	}

	return catalog, nil
}

// WithLogger attaches a structured logger to the catalog; a nil logger
// restores the no-op sink. Mirrors the verbose-mode log.info call sites of
// the tool this layer's compiler is descended from.
func (c *Catalog) WithLogger(logger *zap.SugaredLogger) *Catalog {
	if logger == nil {
		logger = nopLogger()
	}
	c.logger = logger
	return c
}

// Close closes the catalog database connection
func (c *Catalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Path returns the file path of the catalog
func (c *Catalog) Path() string {
	return c.path
}

// DB returns the underlying database connection for advanced operations
func (c *Catalog) DB() *sql.DB {
	return c.db
}

// GetDBVersion returns the Adobe database version from the catalog
func (c *Catalog) GetDBVersion() (string, error) {
	var version string
	err := c.db.QueryRow(
		`SELECT value FROM Adobe_variablesTable WHERE name = 'Adobe_DBVersion'`,
	).Scan(&version)
	if err != nil {
		return "", fmt.Errorf("failed to get DB version: %w", err)
	}
	return version, nil
}

// NewUUID generates a new UUID suitable for Lightroom's id_global fields
func NewUUID() string {
	return strings.ToUpper(uuid.New().String())
}

// ToLightroomTimestamp converts a time.Time to Lightroom's timestamp format
// (seconds since 2001-01-01 00:00:00 UTC)
func ToLightroomTimestamp(t time.Time) float64 {
	return t.Sub(LightroomEpoch).Seconds()
}

// FromLightroomTimestamp converts a Lightroom timestamp to time.Time
func FromLightroomTimestamp(ts float64) time.Time {
	return LightroomEpoch.Add(time.Duration(ts * float64(time.Second)))
}

// FormatCaptureTime formats a time for Lightroom's captureTime field
func FormatCaptureTime(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}

// ImageCount returns the total number of images in the catalog
func (c *Catalog) ImageCount() (int, error) {
	var count int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM Adobe_images`).Scan(&count)
	return count, err
}

// FolderCount returns the total number of folders in the catalog
func (c *Catalog) FolderCount() (int, error) {
	var count int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM AgLibraryFolder`).Scan(&count)
	return count, err
}

// RootFolderCount returns the total number of root folders in the catalog
func (c *Catalog) RootFolderCount() (int, error) {
	var count int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM AgLibraryRootFolder`).Scan(&count)
	return count, err
}
