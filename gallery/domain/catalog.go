package domain

import "encoding/json"

// CatalogPath is the fixed repository path of the metadata catalog.
const CatalogPath = "images.json"

// Catalog is the single JSON index of all stored images, ordered newest
// first. Mutation methods are pure: they return a new catalog and leave the
// receiver untouched, so a mutation function can be re-applied safely.
type Catalog struct {
	Images []ImageEntry `json:"images"`
}

// CatalogOrigin says where a fetched catalog value came from. Emptiness by
// absence (first run) and emptiness by corruption are different states and
// callers may treat them differently.
type CatalogOrigin int

const (
	// OriginExisting means the catalog resource existed and decoded cleanly.
	OriginExisting CatalogOrigin = iota
	// OriginAbsent means the catalog resource does not exist yet.
	OriginAbsent
	// OriginCorrupt means the resource existed but its content was not valid
	// JSON; the catalog value is empty and prior entries are lost on the
	// next write.
	OriginCorrupt
)

func (o CatalogOrigin) String() string {
	switch o {
	case OriginExisting:
		return "existing"
	case OriginAbsent:
		return "absent"
	case OriginCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// Prepend returns a catalog with e inserted at the front (newest first).
func (c Catalog) Prepend(e ImageEntry) Catalog {
	images := make([]ImageEntry, 0, len(c.Images)+1)
	images = append(images, e)
	images = append(images, c.Images...)
	return Catalog{Images: images}
}

// RemoveByFilename returns a catalog without the entry matching filename.
// Removing a filename that is not present is a no-op, not an error.
func (c Catalog) RemoveByFilename(filename string) Catalog {
	images := make([]ImageEntry, 0, len(c.Images))
	for _, e := range c.Images {
		if e.Filename != filename {
			images = append(images, e)
		}
	}
	return Catalog{Images: images}
}

// Find returns the entry with the given filename, if present.
func (c Catalog) Find(filename string) (ImageEntry, bool) {
	for _, e := range c.Images {
		if e.Filename == filename {
			return e, true
		}
	}
	return ImageEntry{}, false
}

// DecodeCatalog parses the persisted catalog document. A decode error is the
// caller's signal that the resource is corrupt; the decision to fall back to
// an empty catalog belongs to the synchronizer, not here.
func DecodeCatalog(content []byte) (Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(content, &c); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// EncodeCatalog serializes the catalog to the persisted document format.
func EncodeCatalog(c Catalog) ([]byte, error) {
	if c.Images == nil {
		c.Images = []ImageEntry{}
	}
	return json.MarshalIndent(c, "", "  ")
}
