// spotstat prints statistics about the spot CSV databases and photo folders.
package main

import (
	"flag"
	"os"

	"k8s.io/klog/v2"

	"github.com/tstromberg/spotpack/pkg/spotpack"
)

var baseDir = flag.String("base", "", "directory holding the CSV databases and photo folders (default $SPOTPACK_BASE_DIR or .)")

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	c, err := spotpack.LoadConfig(*baseDir, "")
	if err != nil {
		klog.Exitf("config: %v", err)
	}

	r, err := spotpack.Analyze(c)
	if err != nil {
		klog.Exitf("analyze failed: %v", err)
	}
	r.Render(os.Stdout)
}
