package lrcat

import (
	"database/sql"
	"fmt"
	"runtime"
	"strings"
)

// RootFolder represents a row in AgLibraryRootFolder.
type RootFolder struct {
	ID           int64
	UUID         string
	AbsolutePath string
	Name         string
}

// Folder represents a row in AgLibraryFolder, relative to a RootFolder.
type Folder struct {
	ID           int64
	UUID         string
	RootFolderID int64
	ParentID     *int64
	PathFromRoot string
}

// GetRootFolder retrieves a root folder by its local id.
func (c *Catalog) GetRootFolder(id int64) (*RootFolder, error) {
	rf := &RootFolder{}
	err := c.db.QueryRow(
		`SELECT id_local, id_global, absolutePath, name FROM AgLibraryRootFolder WHERE id_local = ?`,
		id,
	).Scan(&rf.ID, &rf.UUID, &rf.AbsolutePath, &rf.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("root folder not found: %d", id)
		}
		return nil, err
	}
	return rf, nil
}

// GetRootFolderByPath retrieves a root folder by its absolute path.
func (c *Catalog) GetRootFolderByPath(absolutePath string) (*RootFolder, error) {
	absolutePath = normalizePath(absolutePath)
	if !strings.HasSuffix(absolutePath, "/") {
		absolutePath += "/"
	}

	rf := &RootFolder{}
	err := c.db.QueryRow(
		`SELECT id_local, id_global, absolutePath, name FROM AgLibraryRootFolder WHERE absolutePath = ?`,
		absolutePath,
	).Scan(&rf.ID, &rf.UUID, &rf.AbsolutePath, &rf.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return rf, nil
}

// ListRootFolders returns every root folder in the catalog.
func (c *Catalog) ListRootFolders() ([]*RootFolder, error) {
	rows, err := c.db.Query(
		`SELECT id_local, id_global, absolutePath, name FROM AgLibraryRootFolder ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []*RootFolder
	for rows.Next() {
		rf := &RootFolder{}
		if err := rows.Scan(&rf.ID, &rf.UUID, &rf.AbsolutePath, &rf.Name); err != nil {
			return nil, err
		}
		folders = append(folders, rf)
	}
	return folders, rows.Err()
}

// GetFolder retrieves a folder by its local id.
func (c *Catalog) GetFolder(id int64) (*Folder, error) {
	f := &Folder{}
	var parentID sql.NullInt64
	err := c.db.QueryRow(
		`SELECT id_local, id_global, rootFolder, pathFromRoot, parentId FROM AgLibraryFolder WHERE id_local = ?`,
		id,
	).Scan(&f.ID, &f.UUID, &f.RootFolderID, &f.PathFromRoot, &parentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("folder not found: %d", id)
		}
		return nil, err
	}
	if parentID.Valid {
		f.ParentID = &parentID.Int64
	}
	return f, nil
}

// ListFolders returns every folder under a root folder, ordered by path.
func (c *Catalog) ListFolders(rootFolderID int64) ([]*Folder, error) {
	rows, err := c.db.Query(
		`SELECT id_local, id_global, rootFolder, pathFromRoot, parentId FROM AgLibraryFolder
		 WHERE rootFolder = ? ORDER BY pathFromRoot`,
		rootFolderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []*Folder
	for rows.Next() {
		f := &Folder{}
		var parentID sql.NullInt64
		if err := rows.Scan(&f.ID, &f.UUID, &f.RootFolderID, &f.PathFromRoot, &parentID); err != nil {
			return nil, err
		}
		if parentID.Valid {
			f.ParentID = &parentID.Int64
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// normalizePath converts Windows backslashes to forward slashes.
func normalizePath(path string) string {
	if runtime.GOOS == "windows" {
		path = strings.ReplaceAll(path, "\\", "/")
	}
	return path
}
