package spotpack

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// subfolder returns the directory segment of a photo path: "japan" for /photos/japan/1_1.jpg.
func subfolder(photoPath string, urlRoot string) (string, bool) {
	rel, ok := strings.CutPrefix(photoPath, strings.TrimSuffix(urlRoot, "/")+"/")
	if !ok {
		return "", false
	}
	parts := strings.Split(rel, "/")
	if len(parts) < 2 || parts[0] == "" {
		return "", false
	}
	return parts[0], true
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// CopyPhotos copies every indexed photo into outDir/{subfolder}, skipping photos whose
// source has disappeared or whose destination already exists. It returns the number copied.
func CopyPhotos(idx PhotoIndex, outDir string, urlRoot string) (int, error) {
	ids := make([]string, 0, len(idx))
	for id := range idx {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	copied := 0
	for _, id := range ids {
		for _, p := range idx[id] {
			sub, ok := subfolder(p.Path, urlRoot)
			if !ok {
				klog.Warningf("unable to find subfolder in %s", p.Path)
				continue
			}

			src := filepath.Join(p.SourceDir, p.Filename)
			dst := filepath.Join(outDir, sub, p.Filename)

			ok, err := exists(src)
			if err != nil {
				return copied, fmt.Errorf("stat: %w", err)
			}
			if !ok {
				klog.V(1).Infof("source gone: %s", src)
				continue
			}

			ok, err = exists(dst)
			if err != nil {
				return copied, fmt.Errorf("stat: %w", err)
			}
			if ok {
				klog.V(1).Infof("%s exists", dst)
				continue
			}

			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return copied, fmt.Errorf("mkdir: %w", err)
			}
			if err := copy.Copy(src, dst, copy.Options{PreserveTimes: true}); err != nil {
				return copied, fmt.Errorf("copy: %w", err)
			}
			klog.V(1).Infof("copied %s -> %s", src, dst)
			copied++
		}
	}

	return copied, nil
}
