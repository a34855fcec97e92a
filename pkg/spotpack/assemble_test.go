package spotpack

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

const japanCSV = `Id,Name,Lat,Lng,Address,Detail URL,Site Photos,Memo
107427,Sasebo Station,33.166,129.724,Sasebo,https://share-map.net/smoking-area/japan/nagasaki/sasebo/107427/,x | y,Roof
,,35.68,139.76,,https://share-map.net/smoking-area/japan/tokyo/chiyoda/200/,,
99,No Coordinates,,139.7,,,,
,,,,,,,
,Nowhere,95,0,,,,
`

const worldwideCSV = `coordinate_id,location name,latitude,longitude,detail_url,note
300,Paris,48.85,2.35,,
,,51.5,-0.12,https://share-map.net/spot/abc/,cloudy
`

func testConfig(t *testing.T) *Config {
	t.Helper()
	base := t.TempDir()
	c := DefaultConfig(base, "")

	writeFile(t, c.Sources[0].Path, []byte(japanCSV))
	writeFile(t, c.Sources[1].Path, []byte(worldwideCSV))

	touch(t, c.PhotoDirs[0].Path, "107427_1.jpg")
	touch(t, c.PhotoDirs[0].Path, "107427_2.jpg")
	touch(t, c.PhotoDirs[0].Path, "abc_1.jpg")
	touch(t, c.PhotoDirs[1].Path, "300_1.webp")
	touch(t, c.PhotoDirs[1].Path, "107427_1.png")
	touch(t, c.PhotoDirs[1].Path, "555_1.jpg")
	return c
}

func ids(spots []*Spot) []string {
	out := []string{}
	for _, s := range spots {
		out = append(out, s.ID)
	}
	return out
}

func TestProcessSource(t *testing.T) {
	c := testConfig(t)
	photos := PhotoIndex{"107427": {{Filename: "107427_1.jpg", Path: "/photos/japan/107427_1.jpg"}}}

	sr, err := ProcessSource(c.Sources[0], photos)
	if err != nil {
		t.Fatalf("ProcessSource: %v", err)
	}

	if sr.Rows != 5 {
		t.Errorf("expected 5 rows, got %d", sr.Rows)
	}
	if got, want := ids(sr.Spots), []string{"107427", "200"}; !slices.Equal(got, want) {
		t.Errorf("got ids %v, want %v", got, want)
	}
	if sr.Matched != 1 {
		t.Errorf("expected 1 matched, got %d", sr.Matched)
	}

	counts := sr.SkipCounts()
	if counts[SkipMissingCoordinates] != 2 || counts[SkipOutOfRange] != 1 {
		t.Errorf("unexpected skip counts: %v", counts)
	}
	if sr.Columns[RolePhoto] != "Site Photos" {
		t.Errorf("expected photo column, got %v", sr.Columns)
	}
}

func TestProcessSource_Missing(t *testing.T) {
	sr, err := ProcessSource(Source{Name: "japan", Path: filepath.Join(t.TempDir(), "missing.csv")}, nil)
	if err != nil {
		t.Fatalf("expected no error for missing CSV, got %v", err)
	}
	if sr.Found || len(sr.Spots) != 0 {
		t.Errorf("expected empty result, got %+v", sr)
	}
}

func TestConsolidate(t *testing.T) {
	c := testConfig(t)

	a, err := Consolidate(c)
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}
	if a.Copied != 5 {
		t.Errorf("expected 5 photos copied, got %d", a.Copied)
	}

	bs, err := os.ReadFile(c.OutputJSON)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var d Document
	if err := json.Unmarshal(bs, &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got, want := ids(d.Spots), []string{"107427", "200", "300", "worldwide_1"}; !slices.Equal(got, want) {
		t.Errorf("got ids %v, want %v", got, want)
	}
	if d.TotalSpots != len(d.Spots) {
		t.Errorf("totalSpots %d != %d", d.TotalSpots, len(d.Spots))
	}
	if d.SpotsWithPhotos != 2 {
		t.Errorf("expected 2 spots with photos, got %d", d.SpotsWithPhotos)
	}
	if d.Generated != "spotpack" {
		t.Errorf("expected generated 'spotpack', got %q", d.Generated)
	}

	first := d.Spots[0]
	wantPhotos := []string{"/photos/japan/107427_1.jpg", "/photos/japan/107427_2.jpg", "/photos/worldwide/107427_1.png"}
	if !slices.Equal(first.Photos, wantPhotos) {
		t.Errorf("got photos %v, want %v", first.Photos, wantPhotos)
	}
	if first.Address != "Sasebo" || first.Memo != "Roof" || first.Source != "japan" {
		t.Errorf("unexpected first spot: %+v", first)
	}

	if d.Spots[1].Name != "Spot 200" {
		t.Errorf("expected 'Spot 200', got %q", d.Spots[1].Name)
	}

	last := d.Spots[3]
	if last.Name != "Unknown (51.5000, -0.1200)" || last.Memo != "cloudy" || last.Source != "worldwide" {
		t.Errorf("unexpected last spot: %+v", last)
	}

	for _, p := range wantPhotos {
		rel, _ := filepath.Rel("/photos", p)
		if _, err := os.Stat(filepath.Join(c.PhotosOutDir, rel)); err != nil {
			t.Errorf("expected copied photo %s: %v", p, err)
		}
	}

	again, err := Consolidate(c)
	if err != nil {
		t.Fatalf("second Consolidate: %v", err)
	}
	if again.Copied != 0 {
		t.Errorf("expected 0 photos copied on re-run, got %d", again.Copied)
	}
}

func TestConsolidate_UndecodableSourceWritesNothing(t *testing.T) {
	c := testConfig(t)
	writeFile(t, c.Sources[1].Path, []byte("coordinate_id,latitude,longitude\n"))

	_, err := Consolidate(c)
	if !errors.Is(err, ErrUndecodable) {
		t.Fatalf("expected ErrUndecodable, got %v", err)
	}
	if _, err := os.Stat(c.OutputJSON); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected no output JSON, stat returned %v", err)
	}
	if _, err := os.Stat(c.PhotosOutDir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected no photos copied, stat returned %v", err)
	}
}

func TestConsolidate_MissingInputs(t *testing.T) {
	c := DefaultConfig(t.TempDir(), "")

	a, err := Consolidate(c)
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}
	if len(a.Spots) != 0 || a.Copied != 0 {
		t.Errorf("expected nothing, got %d spots and %d copies", len(a.Spots), a.Copied)
	}

	bs, err := os.ReadFile(c.OutputJSON)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var d Document
	if err := json.Unmarshal(bs, &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.TotalSpots != 0 || d.Spots == nil {
		t.Errorf("expected empty spots array, got %+v", d)
	}
}
