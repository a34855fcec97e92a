package spotpack

// SpotType is the only spot type produced by consolidation.
var SpotType = "allowed"

// Photo is a photo file found while scanning a PhotoDir.
type Photo struct {
	Filename  string
	Path      string
	SourceDir string
}

// PhotoIndex maps a spot identifier to its photos, in scan order.
type PhotoIndex map[string][]*Photo

// Files returns the number of photos across all identifiers.
func (pi PhotoIndex) Files() int {
	n := 0
	for _, ps := range pi {
		n += len(ps)
	}
	return n
}

// Paths returns the output paths of the photos for id.
func (pi PhotoIndex) Paths(id string) []string {
	var paths []string
	for _, p := range pi[id] {
		paths = append(paths, p.Path)
	}
	return paths
}

// Spot represents a single location in the consolidated output.
type Spot struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Lat     float64  `json:"lat"`
	Lng     float64  `json:"lng"`
	Type    string   `json:"type"`
	Source  string   `json:"source"`
	Address string   `json:"address,omitempty"`
	Memo    string   `json:"memo,omitempty"`
	Photos  []string `json:"photos,omitempty"`
}

// Document is the JSON file consumed by the app.
type Document struct {
	Version         string  `json:"version"`
	Generated       string  `json:"generated"`
	TotalSpots      int     `json:"totalSpots"`
	SpotsWithPhotos int     `json:"spotsWithPhotos"`
	Spots           []*Spot `json:"spots"`
}
