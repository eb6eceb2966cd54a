// Profiling:
// go build ./profile/frame
// ./frame -mode cpu
// go tool pprof -http=":8000" ./frame cpu.pprof

package main

import (
	"flag"
	"log"

	"github.com/pkg/profile"

	"github.com/gogpu/voxscene"
	"github.com/gogpu/voxscene/recording"
	"github.com/gogpu/voxscene/render"
)

func main() {
	mode := flag.String("mode", "cpu", "profile mode: cpu, mem or trace")
	frames := flag.Int("frames", 60, "frames to render")
	size := flag.Int("size", 256, "square render target size")
	software := flag.Bool("software", true, "rasterize with the software backend instead of recording")
	flag.Parse()

	var opt func(*profile.Profile)
	switch *mode {
	case "mem":
		opt = profile.MemProfileAllocs
	case "trace":
		opt = profile.TraceProfile
	default:
		opt = profile.CPUProfile
	}

	p := profile.Start(opt, profile.ProfilePath("."), profile.NoShutdownHook)
	if err := run(*frames, *size, *software); err != nil {
		log.Fatal(err)
	}
	p.Stop()
}

func run(frames, size int, software bool) error {
	var backend render.Backend = recording.New()
	if software {
		backend = render.NewSoftwareBackend(render.NewPixmapTarget(size, size))
	}
	defer backend.Close()

	eng, err := voxscene.New(backend, voxscene.WithSeed(1))
	if err != nil {
		return err
	}
	defer eng.Close()
	if err := eng.PopulateDemo(); err != nil {
		return err
	}

	cam := voxscene.NewCamera()
	for range frames {
		if _, err := eng.RunFrame(voxscene.FrameContext{Camera: cam, Aspect: 1, Dt: 1}); err != nil {
			return err
		}
		if rec, ok := backend.(*recording.Backend); ok {
			rec.Reset()
		}
	}
	return nil
}
