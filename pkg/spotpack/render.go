package spotpack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"
)

// DocumentVersion is the format version of the JSON document.
var DocumentVersion = "1.0"

// Render copies matched photos and writes the JSON document for an assembly.
func Render(c *Config, a *Assembly) error {
	klog.Infof("copying photos to %s ...", c.PhotosOutDir)
	n, err := CopyPhotos(a.Photos, c.PhotosOutDir, c.URLRoot)
	if err != nil {
		return fmt.Errorf("copy photos: %w", err)
	}
	a.Copied = n
	klog.Infof("copied %d photos", n)

	d := NewDocument(c.Generated, a.Spots)
	if err := WriteDocument(c.OutputJSON, d); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	klog.Infof("wrote %d spots (%d with photos) to %s", d.TotalSpots, d.SpotsWithPhotos, c.OutputJSON)
	return nil
}

func NewDocument(generated string, spots []*Spot) *Document {
	if spots == nil {
		spots = []*Spot{}
	}
	d := &Document{
		Version:    DocumentVersion,
		Generated:  generated,
		TotalSpots: len(spots),
		Spots:      spots,
	}
	for _, s := range spots {
		if len(s.Photos) > 0 {
			d.SpotsWithPhotos++
		}
	}
	return d
}

// WriteDocument writes d as indented JSON, replacing any previous file at path.
func WriteDocument(path string, d *Document) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".spots-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
