// Command mandelview is an interactive Mandelbrot viewer.
//
// Arrow keys pan, the mouse wheel or + and - zoom, [ and ] change the
// iteration bound, R resets the view and Escape quits. Resizing the window
// resizes the rendered image.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/mandelbrot"
)

type viewer struct {
	gen    *mandelbrot.Generator
	view   mandelbrot.View
	width  int
	height int
	window *ebiten.Image
	dirty  bool
	err    error
}

func main() {
	var (
		width   = flag.Int("width", 800, "initial window width")
		height  = flag.Int("height", 600, "initial window height")
		verbose = flag.Bool("v", false, "log device and dispatch details")
	)
	flag.Parse()

	if *verbose {
		mandelbrot.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := mandelbrot.ConfigFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	gen, err := mandelbrot.New(cfg)
	if err != nil {
		log.Fatalf("mandelview: %v", err)
	}
	defer gen.Close()

	v := &viewer{gen: gen, view: mandelbrot.DefaultView, dirty: true}

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("Mandelbrot - " + gen.Device())
	ebiten.SetWindowResizable(true)
	ebiten.SetVsyncEnabled(true)

	if err := ebiten.RunGame(v); err != nil && err != ebiten.Termination {
		log.Fatalf("mandelview: %v", err)
	}
	if v.err != nil {
		log.Fatalf("mandelview: %v", v.err)
	}
}

func (v *viewer) Update() error {
	if v.err != nil {
		return v.err
	}
	if ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	_, wheel := ebiten.Wheel()
	in := input{
		left:    ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		right:   ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		up:      ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		down:    ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		zoomIn:  ebiten.IsKeyPressed(ebiten.KeyEqual) || ebiten.IsKeyPressed(ebiten.KeyNumpadAdd),
		zoomOut: ebiten.IsKeyPressed(ebiten.KeyMinus) || ebiten.IsKeyPressed(ebiten.KeyNumpadSubtract),
		more:    inpututil.IsKeyJustPressed(ebiten.KeyBracketRight),
		fewer:   inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft),
		reset:   inpututil.IsKeyJustPressed(ebiten.KeyR),
		wheel:   wheel,
	}
	if next := in.apply(v.view); next != v.view {
		v.view = next
		v.dirty = true
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	if v.width == 0 || v.height == 0 {
		return
	}
	if v.dirty {
		v.gen.SetView(v.view)
		pix, err := v.gen.Image()
		if err != nil {
			v.err = err
			return
		}
		if v.window == nil {
			v.window = ebiten.NewImage(v.width, v.height)
		}
		v.window.WritePixels(pix)
		v.dirty = false
	}
	if v.window != nil {
		screen.DrawImage(v.window, nil)
	}
}

// Layout renders at the window's size, reallocating the image when it
// changes.
func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != v.width || outsideHeight != v.height {
		if err := v.gen.SetSize(outsideWidth, outsideHeight); err != nil {
			v.err = err
			return max(v.width, 1), max(v.height, 1)
		}
		v.width, v.height = outsideWidth, outsideHeight
		if v.window != nil {
			v.window.Deallocate()
			v.window = nil
		}
		v.dirty = true
	}
	return max(v.width, 1), max(v.height, 1)
}
