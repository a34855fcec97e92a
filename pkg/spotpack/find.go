package spotpack

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

var photoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// photoID returns the leading numeric segment of a photo filename, e.g. 107427 for 107427_2.jpg.
func photoID(name string) (string, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	first, _, _ := strings.Cut(stem, "_")
	if !isDigits(first) {
		return "", false
	}
	return first, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// listPhotos returns the photo filenames in dir, sorted by name.
func listPhotos(dir string) ([]string, error) {
	des, err := godirwalk.ReadDirents(dir, nil)
	if err != nil {
		return nil, err
	}
	sort.Sort(des)

	names := []string{}
	for _, de := range des {
		name := de.Name()
		if name[0] == '.' || de.IsDir() {
			continue
		}
		if !photoExts[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func dirExists(dir string) (bool, error) {
	st, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !st.IsDir() {
		return false, fmt.Errorf("%s is not a directory", dir)
	}
	return true, nil
}

// ScanPhotos indexes the photos in d by identifier. A missing directory yields an empty index.
func ScanPhotos(d PhotoDir, urlRoot string) (PhotoIndex, error) {
	idx := PhotoIndex{}

	ok, err := dirExists(d.Path)
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	if !ok {
		klog.Warningf("photo folder not found: %s", d.Path)
		return idx, nil
	}

	names, err := listPhotos(d.Path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", d.Path, err)
	}

	for _, name := range names {
		id, ok := photoID(name)
		if !ok {
			klog.V(1).Infof("ignoring %s: no numeric id", name)
			continue
		}
		idx[id] = append(idx[id], &Photo{
			Filename:  name,
			Path:      path.Join(urlRoot, d.Label, name),
			SourceDir: d.Path,
		})
	}

	klog.Infof("%s photos: %d files for %d spots", d.Label, idx.Files(), len(idx))
	return idx, nil
}

// MergePhotos unions indexes; photos for a shared identifier are concatenated in argument order.
func MergePhotos(idxs ...PhotoIndex) PhotoIndex {
	merged := PhotoIndex{}
	for _, idx := range idxs {
		for id, ps := range idx {
			merged[id] = append(merged[id], ps...)
		}
	}
	return merged
}
