// Command voxview shows the demo scene in a window.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/voxscene"
	"github.com/gogpu/voxscene/meshio"
	_ "github.com/gogpu/voxscene/recording"
	"github.com/gogpu/voxscene/viewer"
)

func main() {
	var (
		width   = flag.Int("width", 800, "window width")
		height  = flag.Int("height", 600, "window height")
		backend = flag.String("backend", "software", "render backend")
		drift   = flag.Bool("drift", false, "drift the camera")
		objPath = flag.String("obj", "", "OBJ mesh to load into slot 2")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		voxscene.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	setup := func(e *voxscene.Engine) error {
		if err := e.PopulateDemo(); err != nil {
			return err
		}
		if *objPath != "" {
			return e.LoadMesh(2, *objPath, mgl32.Vec3{0.9, 0.9, 0.9})
		}
		return e.FillWireframeCube(2)
	}

	v, err := viewer.New(viewer.Config{
		Width:   *width,
		Height:  *height,
		Title:   "voxview",
		Backend: *backend,
		Drift:   *drift,
	}, setup, nil, voxscene.WithImporter(meshio.NewCachingImporter(meshio.OBJImporter{}, 8)))
	if err != nil {
		log.Fatal(err)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		log.Fatal(err)
	}
}
