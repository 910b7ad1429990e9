// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Command scenedemo drives a scene graph against stub display and
// rendering backends, printing a line per frame. It exists to exercise
// scene, render, wlrbuffer and wlroutput together as a runnable smoke
// test, the way a real compositor's output loop would.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/mecattaf/wlroots/render"
	"github.com/mecattaf/wlroots/scene"
)

func main() {
	width := flag.Int("width", 1920, "output width in logical pixels")
	height := flag.Int("height", 1080, "output height in logical pixels")
	scaleFlag := flag.Float64("scale", 1, "output scale factor")
	frames := flag.Int("frames", 5, "number of frames to render")
	flag.Parse()

	s := scene.New()
	disp := newStubDisplay(*width, *height, float32(*scaleFlag))
	out := scene.NewOutput(s, disp, 0, 0)

	root := s.Root()
	scene.NewRect(root, *width, *height, render.RGBA{R: 0.1, G: 0.1, B: 0.15, A: 1})

	wallpaper := scene.NewRect(root, *width/4, *height/4, render.RGBA{R: 0.2, G: 0.4, B: 0.8, A: 1})
	scene.SetPosition(wallpaper, *width/2, *height/2)

	buf := newStubBuffer(256, 256)
	client := scene.NewBuffer(root, buf)
	scene.SetPosition(client, 100, 100)
	client.OnOutputEnter(func(o *scene.Output) {
		fmt.Printf("client surface entered output %d\n", o.Index())
	})

	backend := &stubBackend{}
	for i := 0; i < *frames; i++ {
		scene.SetPosition(client, 100+i*10, 100)
		if scene.Commit(out, backend) {
			scene.NotifyFrameDone(out, time.Now())
			fmt.Printf("frame %d: presented (rects=%d, textures=%d)\n", i, backend.rects, backend.uploads)
		} else {
			fmt.Printf("frame %d: skipped (no damage)\n", i)
		}
	}
}
