package spotpack

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"k8s.io/klog/v2"
)

// SourceResult is the outcome of processing one CSV source.
type SourceResult struct {
	Name     string
	Path     string
	Found    bool
	Encoding string
	Columns  Columns
	Rows     int
	Spots    []*Spot
	Skipped  []RowResult
	// Matched counts spots with at least one photo.
	Matched int
}

// SkipCounts tallies skipped rows by reason.
func (sr *SourceResult) SkipCounts() map[SkipReason]int {
	counts := map[SkipReason]int{}
	for _, r := range sr.Skipped {
		counts[r.Skip]++
	}
	return counts
}

// ProcessSource reads a CSV source and normalizes its rows into spots. A missing file yields no spots.
func ProcessSource(src Source, photos PhotoIndex) (*SourceResult, error) {
	sr := &SourceResult{Name: src.Name, Path: src.Path}

	if _, err := os.Stat(src.Path); errors.Is(err, fs.ErrNotExist) {
		klog.Warningf("CSV not found: %s", src.Path)
		return sr, nil
	}
	sr.Found = true

	t, err := ReadCSV(src.Path)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	sr.Encoding = t.Encoding
	sr.Rows = len(t.Rows)
	klog.Infof("processing %s: %d rows (%s)", src.Name, sr.Rows, t.Encoding)

	sr.Columns = DetectColumns(t.Headers)
	klog.Infof("detected columns: %s", sr.Columns)

	for _, row := range t.Rows {
		res := NormalizeRow(row, sr.Columns, src.Name, len(sr.Spots), photos)
		if res.Spot == nil {
			klog.V(1).Infof("%s:%d skipped: %s", src.Path, res.Line, res.Skip)
			sr.Skipped = append(sr.Skipped, res)
			continue
		}
		if len(res.Spot.Photos) > 0 {
			sr.Matched++
		}
		sr.Spots = append(sr.Spots, res.Spot)
	}

	klog.Infof("processed %d valid spots, %d with photos, skipped %v", len(sr.Spots), sr.Matched, sr.SkipCounts())
	return sr, nil
}

// an Assembly is the in-memory result of scanning photos and processing every source.
type Assembly struct {
	Photos  PhotoIndex
	Sources []*SourceResult
	Spots   []*Spot
	// Copied is set by Render.
	Copied int
}

// Collect scans photo directories and processes sources, in configuration order.
func Collect(c *Config) (*Assembly, error) {
	klog.Infof("scanning %d photo directories ...", len(c.PhotoDirs))
	idxs := []PhotoIndex{}
	for _, d := range c.PhotoDirs {
		idx, err := ScanPhotos(d, c.URLRoot)
		if err != nil {
			return nil, fmt.Errorf("scan photos: %w", err)
		}
		idxs = append(idxs, idx)
	}

	a := &Assembly{Photos: MergePhotos(idxs...)}
	klog.Infof("combined: %d photos for %d spots", a.Photos.Files(), len(a.Photos))

	klog.Infof("processing %d CSV sources ...", len(c.Sources))
	for _, src := range c.Sources {
		sr, err := ProcessSource(src, a.Photos)
		if err != nil {
			return nil, fmt.Errorf("process %s: %w", src.Name, err)
		}
		a.Sources = append(a.Sources, sr)
		a.Spots = append(a.Spots, sr.Spots...)
	}

	return a, nil
}

// Consolidate runs the full pipeline: collect, copy photos, and write the JSON document.
func Consolidate(c *Config) (*Assembly, error) {
	a, err := Collect(c)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	if err := Render(c, a); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return a, nil
}
