// spotpack consolidates the spot CSV databases and downloaded photos into the app's spots.json.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"k8s.io/klog/v2"

	"github.com/tstromberg/spotpack/pkg/spotpack"
)

var (
	baseDir   = flag.String("base", "", "directory holding the CSV databases and photo folders (default $SPOTPACK_BASE_DIR or .)")
	appDir    = flag.String("app", "", "app checkout to write into (default <base>/smoking-area-app)")
	outJSON   = flag.String("out-json", "", "override the output JSON path")
	photosOut = flag.String("photos-out", "", "override the photo output directory")
	watchFlag = flag.Bool("watch", false, "watch inputs for changes and rebuild")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	c, err := spotpack.LoadConfig(*baseDir, *appDir)
	if err != nil {
		klog.Exitf("config: %v", err)
	}
	if *outJSON != "" {
		c.OutputJSON = *outJSON
	}
	if *photosOut != "" {
		c.PhotosOutDir = *photosOut
	}
	if err := c.Validate(); err != nil {
		klog.Exitf("config: %v", err)
	}

	build := func() error {
		a, err := spotpack.Consolidate(c)
		if err != nil {
			return err
		}
		summarize(c, a)
		return nil
	}

	if err := build(); err != nil {
		klog.Exitf("consolidate failed: %v", err)
	}

	if !*watchFlag {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := spotpack.Watch(ctx, c, build); err != nil {
		klog.Exitf("watch failed: %v", err)
	}
}

func summarize(c *spotpack.Config, a *spotpack.Assembly) {
	d := spotpack.NewDocument(c.Generated, a.Spots)
	klog.Infof("total spots: %d", d.TotalSpots)
	for _, sr := range a.Sources {
		klog.Infof("  - %s: %d", sr.Name, len(sr.Spots))
	}
	klog.Infof("spots with photos: %d", d.SpotsWithPhotos)
	klog.Infof("photos copied: %d", a.Copied)
	klog.Infof("output JSON: %s", c.OutputJSON)
	klog.Infof("photos directory: %s", c.PhotosOutDir)
}
