// Command voxdemo renders the demo scene without a window.
//
// By default it draws with the software backend and writes a PNG. With
// -trace it draws with the recording backend and prints the command stream
// instead.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"

	"github.com/gogpu/voxscene"
	"github.com/gogpu/voxscene/meshio"
	"github.com/gogpu/voxscene/recording"
	"github.com/gogpu/voxscene/render"
)

func main() {
	var (
		width       = flag.Int("width", 800, "image width")
		height      = flag.Int("height", 600, "image height")
		output      = flag.String("output", "voxdemo.png", "output file")
		frames      = flag.Int("frames", 1, "frames to run before saving")
		supersample = flag.Int("supersample", 1, "render at N times the size and downscale")
		trace       = flag.Bool("trace", false, "print backend commands instead of writing a PNG")
		backendName = flag.String("backend", "software", "render backend "+fmt.Sprint(render.Backends()))
		seed        = flag.Uint64("seed", 1, "volume generator seed")
		objPath     = flag.String("obj", "", "OBJ mesh to load into slot 2")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		voxscene.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if *trace {
		*backendName = "recording"
	}
	ss := max(*supersample, 1)
	target := render.NewPixmapTarget(*width*ss, *height*ss)

	backend, err := render.Open(*backendName, target)
	if err != nil {
		log.Fatalf("Failed to open backend: %v", err)
	}
	defer backend.Close()

	eng, err := voxscene.New(backend,
		voxscene.WithSeed(*seed),
		voxscene.WithImporter(meshio.NewCachingImporter(meshio.OBJImporter{}, 4)),
	)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer eng.Close()

	if err := eng.PopulateDemo(); err != nil {
		log.Fatalf("Failed to build scene: %v", err)
	}
	if err := eng.FillSphere(3); err != nil {
		log.Fatalf("Failed to fill volume: %v", err)
	}
	if *objPath != "" {
		if err := eng.LoadMesh(2, *objPath, mgl32.Vec3{0.9, 0.9, 0.9}); err != nil {
			log.Fatalf("Failed to load mesh: %v", err)
		}
	}

	cam := voxscene.NewCamera()
	var stats voxscene.FrameStats
	for range max(*frames, 1) {
		stats, err = eng.RunFrame(voxscene.FrameContext{
			Camera: cam,
			Aspect: float32(*width) / float32(*height),
			Dt:     1,
		})
		if err != nil {
			log.Fatalf("Frame failed: %v", err)
		}
	}

	if rec, ok := backend.(*recording.Backend); ok {
		if _, err := rec.WriteTo(os.Stdout); err != nil {
			log.Fatal(err)
		}
		log.Printf("%+v", stats)
		return
	}

	var img image.Image = target.Image()
	if ss > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, *width, *height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), target.Image(), target.Image().Bounds(), draw.Src, nil)
		img = dst
	}
	if err := savePNG(*output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d) %+v\n", *output, *width, *height, stats)
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
