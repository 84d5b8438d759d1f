package lrcat

import "fmt"

// joinFile, joinFolder and joinExif are the photo registry's fixed
// (non-occurrence) joins, shared by several columns and criteria.
func joinFile() Join { return Join{Table: "AgLibraryFile", Alias: "fi", On: "i.rootFile = fi.id_local"} }
func joinFolder() Join {
	return Join{Table: "AgLibraryFolder", Alias: "f", On: "fi.folder = f.id_local"}
}
func joinRootFolder() Join {
	return Join{Table: "AgLibraryRootFolder", Alias: "rf", On: "f.rootFolder = rf.id_local"}
}
func joinExif() Join {
	return Join{Table: "AgHarvestedExifMetadata", Alias: "em", On: "i.id_local = em.image"}
}
func joinAdditional() Join {
	return Join{Table: "Adobe_AdditionalMetadata", Alias: "adm", On: "i.id_local = adm.image"}
}
func joinIPTC() Join {
	return Join{Table: "AgLibraryIPTC", Alias: "iptc", On: "i.id_local = iptc.image"}
}
func joinHarvestedIPTC() Join {
	return Join{Table: "AgHarvestedIptcMetadata", Alias: "him", On: "i.id_local = him.image"}
}
func joinCreator() Join {
	return Join{Table: "AgInternedIptcCreator", Alias: "creator", On: "him.creatorRef = creator.id_local"}
}
func joinCamera() Join {
	return Join{Table: "AgInternedExifCameraModel", Alias: "cam", On: "em.cameraModelRef = cam.id_local"}
}
func joinLens() Join {
	return Join{Table: "AgInternedExifLens", Alias: "lnz", On: "em.lensRef = lnz.id_local"}
}
func joinSearchIndex() Join {
	return Join{Table: "AgMetadataSearchIndex", Alias: "msi", On: "i.id_local = msi.image"}
}
func joinFolderStack() Join {
	return Join{Table: "AgLibraryFolderStackImage", Alias: "fsi", On: "i.id_local = fsi.image"}
}
func joinRemotePhoto() Join {
	return Join{Table: "AgRemotePhoto", Alias: "rm", On: "i.id_local = rm.photo"}
}

// pubTimeExpr and pubPositionExpr split AgRemotePhoto.url on its first "/":
// the original tool packs the publish-queue position before the slash and
// the publish timestamp (LR-epoch seconds, as a string) after it.
const pubTimeExpr = `CAST((select substr(rm.url, pos+1) from (select instr(rm.url, "/") as pos)) AS INTEGER)`
const pubPositionExpr = `CAST(substr(rm.url, 1, instr(rm.url, "/") - 1) AS INTEGER)`

// dayFirst reads Config.DayFirstDates from tc, defaulting to month-first
// (the package default) when no TransformContext was supplied.
func dayFirst(tc *TransformContext) bool {
	if tc == nil {
		return false
	}
	return tc.Config.DayFirstDates
}

const fullPathExpr = `rf.absolutePath || f.pathFromRoot || fi.baseName || "." || fi.extension`
const baseExtExpr = `fi.baseName || "." || fi.extension`

// NewPhotoRegistry builds the Schema Registry for the photo main table
// (component C). Grounded on lrselectphoto.py's column/criterion
// dictionaries.
func NewPhotoRegistry() Registry {
	columns := map[string]ColumnSpec{
		"name": {Name: "name", Variants: map[string]ColumnVariant{
			"":       {SQL: "fi.baseName", Joins: []Join{joinFile()}},
			"base":   {SQL: "fi.baseName", Joins: []Join{joinFile()}},
			"basext": {SQL: baseExtExpr, Joins: []Join{joinFile()}},
			"full":   {SQL: fullPathExpr, Joins: []Join{joinFile(), joinFolder(), joinRootFolder()}},
		}},
		"uuid":        {Name: "uuid", Variants: map[string]ColumnVariant{"": {SQL: "i.id_global"}}},
		"id":          {Name: "id", Variants: map[string]ColumnVariant{"": {SQL: "i.id_local"}}},
		"rating":      {Name: "rating", Variants: map[string]ColumnVariant{"": {SQL: "i.rating"}}},
		"colorlabel":  {Name: "colorlabel", Variants: map[string]ColumnVariant{"": {SQL: "i.colorLabels"}}},
		"flag":        {Name: "flag", Variants: map[string]ColumnVariant{"": {SQL: "i.pick"}}},
		"datemod":     {Name: "datemod", Variants: map[string]ColumnVariant{"": {SQL: "i.touchTime"}}},
		"datecapt":    {Name: "datecapt", Variants: map[string]ColumnVariant{"": {SQL: "i.captureTime"}}},
		"modcount":    {Name: "modcount", Variants: map[string]ColumnVariant{"": {SQL: "i.touchCount"}}},
		"master":      {Name: "master", Variants: map[string]ColumnVariant{"": {SQL: "i.masterImage"}}},
		"xmp":         {Name: "xmp", Variants: map[string]ColumnVariant{"": {SQL: "adm.xmp", Joins: []Join{joinAdditional()}}}},
		"vname":       {Name: "vname", Variants: map[string]ColumnVariant{"": {SQL: "i.copyName"}}},
		"stack":       {Name: "stack", Variants: map[string]ColumnVariant{"": {SQL: "fsi.stack", Joins: []Join{joinFolderStack()}}}},
		"stackpos":    {Name: "stackpos", Variants: map[string]ColumnVariant{"": {SQL: "fsi.position", Joins: []Join{joinFolderStack()}}}},
		"camera":      {Name: "camera", Variants: map[string]ColumnVariant{"": {SQL: "cam.value", Joins: []Join{joinExif(), joinCamera()}}}},
		"lens":        {Name: "lens", Variants: map[string]ColumnVariant{"": {SQL: "lnz.value", Joins: []Join{joinExif(), joinLens()}}}},
		"iso":         {Name: "iso", Variants: map[string]ColumnVariant{"": {SQL: "em.isoSpeedRating", Joins: []Join{joinExif()}}}},
		"focal":       {Name: "focal", Variants: map[string]ColumnVariant{"": {SQL: "em.focalLength", Joins: []Join{joinExif()}}}},
		"aperture":    {Name: "aperture", Variants: map[string]ColumnVariant{"": {SQL: "em.aperture", Joins: []Join{joinExif()}}}},
		"speed":       {Name: "speed", Variants: map[string]ColumnVariant{"": {SQL: "em.shutterSpeed", Joins: []Join{joinExif()}}}},
		"orientation": {Name: "orientation", Variants: map[string]ColumnVariant{"": {SQL: "i.orientation"}}},
		"monochrome":  {Name: "monochrome", Variants: map[string]ColumnVariant{"": {SQL: "adm.monochrome", Joins: []Join{joinAdditional()}}}},
		"flash":       {Name: "flash", Variants: map[string]ColumnVariant{"": {SQL: "em.flashFired", Joins: []Join{joinExif()}}}},
		"dims": {Name: "dims", Variants: map[string]ColumnVariant{
			"": {SQL: `i.fileWidth || "x" || i.fileHeight`},
		}},
		"aspectratio": {Name: "aspectratio", Variants: map[string]ColumnVariant{"": {SQL: "i.aspectRatioCache"}}},
		"creator":     {Name: "creator", Variants: map[string]ColumnVariant{"": {SQL: "creator.value", Joins: []Join{joinHarvestedIPTC(), joinCreator()}}}},
		"caption":     {Name: "caption", Variants: map[string]ColumnVariant{"": {SQL: "iptc.caption", Joins: []Join{joinIPTC()}}}},
		"copyright":   {Name: "copyright", Variants: map[string]ColumnVariant{"": {SQL: "iptc.copyright", Joins: []Join{joinIPTC()}}}},
		"hasgps":      {Name: "hasgps", Variants: map[string]ColumnVariant{"": {SQL: "em.hasGPS", Joins: []Join{joinExif()}}}},
		"latitude":    {Name: "latitude", Variants: map[string]ColumnVariant{"": {SQL: "em.gpsLatitude", Joins: []Join{joinExif()}}}},
		"longitude":   {Name: "longitude", Variants: map[string]ColumnVariant{"": {SQL: "em.gpsLongitude", Joins: []Join{joinExif()}}}},
		"exif": {Name: "exif", Variants: map[string]ColumnVariant{
			"var": {SQL: "em.%s", Joins: []Join{joinExif()}},
		}},
		"extfile":  {Name: "extfile", Variants: map[string]ColumnVariant{"": {SQL: "fi.extension", Joins: []Join{joinFile()}}}},
		"location": {Name: "location", Variants: map[string]ColumnVariant{"": {SQL: fullPathExpr, Joins: []Join{joinFile(), joinFolder(), joinRootFolder()}}}},
		"duration": {Name: "duration", Variants: map[string]ColumnVariant{"": {SQL: "vi.duration", Joins: []Join{{Table: "AgVideoInfo", Alias: "vi", On: "i.id_local = vi.image"}}}}},
		"datehist": {Name: "datehist", Variants: map[string]ColumnVariant{
			"": {
				SQL: `(SELECT MAX(hist.dateCreated) FROM Adobe_libraryImageDevelopHistoryStep hist
					WHERE hist.image = i.id_local AND hist.name NOT IN ("Publish", "Export"))`,
			},
		}},
	}

	criteria := map[string]CriterionSpec{
		"ext": {
			Joins: func(int) []Join { return []Join{joinFile()} },
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return fmt.Sprintf(`fi.extension = "%s"`, v), nil
			},
		},
		"exactname": {
			Joins: func(int) []Join { return []Join{joinFile()} },
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return LikeValueOrNull("fi.baseName", v), nil
			},
		},
		"folder": {
			Joins: func(int) []Join { return []Join{joinFile(), joinFolder()} },
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return fmt.Sprintf(`f.pathFromRoot LIKE "%%%s%%"`, v), nil
			},
		},
		"idfolder": {
			Joins: func(int) []Join { return []Join{joinFile()} },
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return fmt.Sprintf(`fi.folder = %s`, v), nil
			},
		},
		"import": {
			Joins: func(int) []Join {
				return []Join{{Table: "AgLibraryImportImage", Alias: "impi", On: "i.id_local = impi.image"}}
			},
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return fmt.Sprintf(`impi.import = %s`, v), nil
			},
		},
		"idcollection": {
			Joins: func(occ int) []Join {
				ci := aliasN("ci", occ)
				return []Join{{Table: "AgLibraryCollectionImage", Alias: ci, On: fmt.Sprintf("i.id_local = %s.image", ci)}}
			},
			Build: func(_ *TransformContext, v string, occ int) (string, error) {
				ci := aliasN("ci", occ)
				return fmt.Sprintf(`%s.collection = %s`, ci, v), nil
			},
		},
		"collection": {
			Joins: func(occ int) []Join {
				ci, col := aliasN("ci", occ), aliasN("col", occ)
				return []Join{
					{Table: "AgLibraryCollectionImage", Alias: ci, On: fmt.Sprintf("i.id_local = %s.image", ci)},
					{Table: "AgLibraryCollection", Alias: col, On: fmt.Sprintf("%s.collection = %s.id_local", ci, col)},
				}
			},
			Build: func(_ *TransformContext, v string, occ int) (string, error) {
				col := aliasN("col", occ)
				return LikeValueOrNull(col+".name", v), nil
			},
		},
		"idpubcollection": {
			Joins: func(int) []Join {
				return []Join{{Table: "AgLibraryPublishedCollectionImage", Alias: "pci", On: "i.id_local = pci.image"}}
			},
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return fmt.Sprintf(`pci.collection = %s`, v), nil
			},
		},
		"pubcollection": {
			Joins: func(int) []Join {
				return []Join{
					{Table: "AgLibraryPublishedCollectionImage", Alias: "pci", On: "i.id_local = pci.image"},
					{Table: "AgLibraryPublishedCollection", Alias: "pc", On: "pci.collection = pc.id_local"},
				}
			},
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return PublishedPredicate(v), nil
			},
		},
		"keyword": {
			Joins: func(occ int) []Join {
				kwi, kw := aliasN("kwi", occ), aliasN("kw", occ)
				return []Join{
					{Table: "AgLibraryKeywordImage", Alias: kwi, On: fmt.Sprintf("i.id_local = %s.image", kwi)},
					{Table: "AgLibraryKeyword", Alias: kw, On: fmt.Sprintf("%s.tag = %s.id_local", kwi, kw)},
				}
			},
			Build: func(_ *TransformContext, v string, occ int) (string, error) {
				kw := aliasN("kw", occ)
				return fmt.Sprintf(`%s.name LIKE "%s"`, kw, v), nil
			},
		},
		"haskeywords": {
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return HasKeywordsPredicate(v)
			},
		},
		"metastatus": {
			Joins: func(int) []Join { return []Join{joinAdditional()} },
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return MetaStatusPredicate("adm", "i", v)
			},
		},
		"stacks": {
			Joins: func(int) []Join { return []Join{joinFolderStack()} },
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return StacksPredicate("fsi", v)
			},
		},
		"exifindex": {
			Joins: func(int) []Join { return []Join{joinSearchIndex()} },
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return SearchIndexLike("msi.exifSearchIndex", v), nil
			},
		},
		"title": {
			Joins: func(int) []Join { return []Join{joinSearchIndex()} },
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return SearchIndexLike("msi.otherSearchIndex", v), nil
			},
		},
		"hasgps": {
			Joins: func(int) []Join { return []Join{joinExif()} },
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				zo, err := ZeroOne(v)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf(`em.hasGPS = %s`, zo), nil
			},
		},
		"gps": {
			Joins: func(int) []Join { return []Join{joinExif()} },
			Build: func(tc *TransformContext, v string, _ int) (string, error) {
				return GPSPredicate("em", v, tc, nil)
			},
		},
		"vcopies": {
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				b, err := ToBool(v)
				if err != nil {
					return "", &BadValueError{Key: "vcopies", Value: v, Err: err}
				}
				if b {
					return `i.masterImage IS NOT NULL`, nil
				}
				return `i.masterImage IS NULL`, nil
			},
		},
		"videos": {
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				op, err := BoolToEqual(v)
				if err != nil {
					return "", &BadValueError{Key: "videos", Value: v, Err: err}
				}
				return fmt.Sprintf(`i.fileFormat %s "VIDEO"`, op), nil
			},
		},
		"rating": {
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return Rating("i.rating", v)
			},
		},
		"orientation": {
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return fmt.Sprintf(`i.orientation = "%s"`, v), nil
			},
		},
		"width": {
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				op, rest := splitOperator(v)
				return fmt.Sprintf(`i.fileWidth %s %s`, op, rest), nil
			},
		},
		"height": {
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				op, rest := splitOperator(v)
				return fmt.Sprintf(`i.fileHeight %s %s`, op, rest), nil
			},
		},
		"aspectratio": {
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				op, rest := splitOperator(v)
				return fmt.Sprintf(`i.aspectRatioCache %s %s`, op, rest), nil
			},
		},
		"camera": {
			Joins:                  func(int) []Join { return []Join{joinExif(), joinCamera()} },
			NullFallbackOnNotEqual: true,
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return LikeValueOrNull("cam.value", v), nil
			},
		},
		"lens": {
			Joins:                  func(int) []Join { return []Join{joinExif(), joinLens()} },
			NullFallbackOnNotEqual: true,
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return LikeValueOrNull("lnz.value", v), nil
			},
		},
		"aperture": {
			Joins: func(int) []Join { return []Join{joinExif()} },
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				expr, err := Aperture(v)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf(`em.aperture %s`, expr), nil
			},
		},
		"speed": {
			Joins: func(int) []Join { return []Join{joinExif()} },
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				expr, err := Speed(v)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf(`em.shutterSpeed %s`, expr), nil
			},
		},
		"iso": {
			Joins: func(int) []Join { return []Join{joinExif()} },
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				if !isNumericComparison(v) {
					return "", &BadValueError{Key: "iso", Value: v, Err: fmt.Errorf("expected a numeric iso comparison")}
				}
				return fmt.Sprintf(`em.isoSpeedRating %s`, v), nil
			},
		},
		"family": {
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return fmt.Sprintf(`(i.id_local = %s OR i.masterImage = %s)`, v, v), nil
			},
		},
		"datecapt": {
			Build: func(tc *TransformContext, v string, _ int) (string, error) {
				return ParseDate("i.captureTime", v, dayFirst(tc))
			},
		},
		"datemod": {
			Build: func(tc *TransformContext, v string, _ int) (string, error) {
				return DateToLRStamp("i.touchTime", v, dayFirst(tc), false)
			},
		},
		"pubtime": {
			Joins: func(int) []Join { return []Join{joinRemotePhoto()} },
			Build: func(tc *TransformContext, v string, _ int) (string, error) {
				return DateToLRStamp(pubTimeExpr, v, dayFirst(tc), true)
			},
		},
		"pubposition": {
			Joins: func(int) []Join { return []Join{joinRemotePhoto()} },
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				op, rest := splitOperator(v)
				return fmt.Sprintf(`%s %s %s`, pubPositionExpr, op, rest), nil
			},
		},
	}

	return Registry{
		MainTable:      "Adobe_images",
		MainAlias:      "i",
		Columns:        columns,
		Criteria:       criteria,
		DefaultColumns: "name=basext",
	}
}

func aliasN(prefix string, occurrence int) string {
	return fmt.Sprintf("%s%d", prefix, occurrence)
}

// NewCollectionRegistry builds the Schema Registry for the collection
// main table. Grounded on lrselectcollection.py.
func NewCollectionRegistry() Registry {
	columns := map[string]ColumnSpec{
		"name":   {Name: "name", Variants: map[string]ColumnVariant{"": {SQL: "col.name"}}},
		"id":     {Name: "id", Variants: map[string]ColumnVariant{"": {SQL: "col.id_local"}}},
		"type":   {Name: "type", Variants: map[string]ColumnVariant{"": {SQL: "col.creationId"}}},
		"parent": {Name: "parent", Variants: map[string]ColumnVariant{"": {SQL: "col.parent"}}},
		"count":  {Name: "count", Variants: map[string]ColumnVariant{"": {SQL: "col.imageCount"}}},
	}

	criteria := map[string]CriterionSpec{
		"name": {
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return LikeValueOrNull("col.name", v), nil
			},
		},
		"type": {
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return collectionTypePredicate(v)
			},
		},
		"parent": {
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return ValueOrNull("col.parent", v), nil
			},
		},
		"smart": {
			Joins: func(int) []Join {
				return []Join{{Table: "AgLibraryCollectionContent", Alias: "cc", On: "col.id_local = cc.collection"}}
			},
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				op, err := BoolToEqual(v)
				if err != nil {
					return "", &BadValueError{Key: "smart", Value: v, Err: err}
				}
				return fmt.Sprintf(`cc.owningModule %s "ag.library.smart_collection"`, op), nil
			},
		},
		"id4smart": {
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return fmt.Sprintf(`col.id_local = %s`, v), nil
			},
		},
		"name4smart": {
			Build: func(_ *TransformContext, v string, _ int) (string, error) {
				return LikeValueOrNull("col.name", v), nil
			},
		},
	}

	return Registry{
		MainTable:      "AgLibraryCollection",
		MainAlias:      "col",
		Columns:        columns,
		Criteria:       criteria,
		DefaultColumns: "name",
	}
}

func collectionTypePredicate(v string) (string, error) {
	switch v {
	case "smart":
		return fmt.Sprintf(`col.creationId = "%s"`, CollectionTypeSmart), nil
	case "group":
		return fmt.Sprintf(`col.creationId = "%s"`, CollectionTypeGroup), nil
	case "standard":
		return fmt.Sprintf(`col.creationId = "%s"`, CollectionTypeStandard), nil
	}
	return "", &BadValueError{Key: "type", Value: v}
}
