// Command compdemo renders one frame of a bloom-style compositor chain with
// the software back end and saves it as PNG.
package main

import (
	"flag"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/material"
	"github.com/gogpu/compositor/render"
	"github.com/gogpu/compositor/render/software"
	"github.com/gogpu/gputypes"
)

// passthroughWGSL forwards the interpolated colour.
const passthroughWGSL = `@fragment
fn main(@location(0) color: vec4<f32>) -> @location(0) vec4<f32> {
    return color;
}
`

func main() {
	var (
		width   = flag.Int("width", 800, "image width")
		height  = flag.Int("height", 600, "image height")
		output  = flag.String("output", "compdemo.png", "output file")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		compositor.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	mgr := compositor.NewManager()
	defer mgr.Close()

	if err := setupMaterials(mgr.Materials()); err != nil {
		log.Fatalf("Failed to set up materials: %v", err)
	}
	if err := setupBloom(mgr); err != nil {
		log.Fatalf("Failed to set up compositor: %v", err)
	}

	window := render.NewWindowTarget("window", *width, *height)
	cam := render.NewCamera("main")
	vp := window.AddViewport(cam)
	vp.BackgroundColor = gputypes.Color{R: 0.05, G: 0.05, B: 0.1, A: 1}

	rs := software.NewRenderSystem(mgr.Textures())
	sm := software.NewSceneManager(rs)
	populateScene(sm)

	if _, err := mgr.AddCompositor(vp, "Bloom", -1); err != nil {
		log.Fatalf("Failed to add compositor: %v", err)
	}
	if err := mgr.SetCompositorEnabled(vp, "Bloom", true); err != nil {
		log.Fatalf("Failed to enable compositor: %v", err)
	}

	if err := mgr.Chain(vp).Update(sm); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, window.Image()); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Printf("Frame saved to %s (%dx%d), %s\n", *output, *width, *height, mgr.Textures().Stats())
}

func setupMaterials(mm *material.Manager) error {
	down, err := mm.Create("Downsample")
	if err != nil {
		return err
	}
	p := down.CreateTechnique().CreatePass()
	p.CreateTextureUnitState("")

	combine, err := mm.Create("Combine")
	if err != nil {
		return err
	}
	p = combine.CreateTechnique().CreatePass()
	p.FragmentSource = passthroughWGSL
	p.CreateTextureUnitState("")
	glow := p.CreateTextureUnitState("")
	glow.Filter = gputypes.FilterModeLinear
	return nil
}

// setupBloom declares a compositor that captures the scene, downsamples it
// to a quarter size and combines both into the output.
func setupBloom(mgr *compositor.Manager) error {
	c, err := mgr.CreateCompositor("Bloom")
	if err != nil {
		return err
	}
	t := c.CreateTechnique()

	scene := t.CreateTextureDefinition("scene")
	scene.Formats = []gputypes.TextureFormat{gputypes.TextureFormatRGBA8Unorm}

	small := t.CreateTextureDefinition("small")
	small.WidthFactor, small.HeightFactor = 0.25, 0.25
	small.Formats = []gputypes.TextureFormat{gputypes.TextureFormatRGBA8Unorm}
	small.Pooled = true

	tp := t.CreateTargetPass()
	tp.OutputName = "scene"
	tp.InputMode = compositor.InputPrevious

	tp = t.CreateTargetPass()
	tp.OutputName = "small"
	quad := tp.CreatePass(compositor.PassRenderQuad)
	quad.MaterialName = "Downsample"
	quad.SetInput(0, "scene", 0)

	out := t.OutputTargetPass()
	quad = out.CreatePass(compositor.PassRenderQuad)
	quad.MaterialName = "Combine"
	quad.SetInput(0, "scene", 0)
	quad.SetInput(1, "small", 0)
	return nil
}

func populateScene(sm *software.SceneManager) {
	sm.AddObject(&software.Object{
		Name: "sky", Queue: render.QueueSkiesEarly,
		Left: 0, Top: 0, Right: 1, Bottom: 0.4,
		Color: color.RGBA{R: 40, G: 90, B: 200, A: 255},
	})
	sm.AddObject(&software.Object{
		Name: "ground", Queue: render.QueueMain,
		Left: 0, Top: 0.7, Right: 1, Bottom: 1,
		Color: color.RGBA{R: 60, G: 140, B: 50, A: 255},
	})
	sm.AddObject(&software.Object{
		Name: "sun", Queue: render.QueueMain,
		Left: 0.65, Top: 0.1, Right: 0.8, Bottom: 0.3,
		Color: color.RGBA{R: 255, G: 230, B: 120, A: 255},
	})
}
