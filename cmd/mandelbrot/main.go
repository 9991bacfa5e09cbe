// Command mandelbrot renders one Mandelbrot frame to an image file.
//
// Usage:
//
//	mandelbrot -width 800 -height 600 -output frame.png
//	mandelbrot -cx -0.5 -cy 0 -scale 0.00375 -iterations 200 -output - | display
//
// The output format follows the file extension: .png, .bmp, .tif or .tiff.
// "-" writes PNG to stdout, which must not be a terminal.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/term"

	"github.com/gogpu/mandelbrot"
)

const pipeName = "-"

type options struct {
	width, height int
	view          mandelbrot.View
	supersample   int
	output        string
	verbose       bool
	config        mandelbrot.Config
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if opts.verbose {
		mandelbrot.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if err := run(opts); err != nil {
		log.Fatalf("mandelbrot: %v", err)
	}
}

func parseFlags(args []string) (*options, error) {
	cfg, err := mandelbrot.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	fs := flag.NewFlagSet("mandelbrot", flag.ContinueOnError)
	var (
		width       = fs.Int("width", 800, "image width")
		height      = fs.Int("height", 600, "image height")
		cx          = fs.Float64("cx", float64(mandelbrot.DefaultView.CenterX), "real part of the image center")
		cy          = fs.Float64("cy", float64(mandelbrot.DefaultView.CenterY), "imaginary part of the image center")
		scale       = fs.Float64("scale", float64(mandelbrot.DefaultView.Scale), "plane distance per pixel")
		iterations  = fs.Uint("iterations", uint(mandelbrot.DefaultView.MaxIterations), "iteration bound")
		supersample = fs.Int("supersample", 1, "render at N times the size and downscale")
		output      = fs.String("output", "mandelbrot.png", "output file, - for stdout")
		backend     = fs.String("backend", string(cfg.Backend), "compute backend: auto, gpu or software")
		kernelPath  = fs.String("kernel", cfg.KernelPath, "WGSL kernel module to load")
		workers     = fs.Int("workers", cfg.Workers, "software device workers, 0 for GOMAXPROCS")
		verbose     = fs.Bool("v", false, "log device and dispatch details")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *width <= 0 || *height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", *width, *height)
	}
	if *supersample < 1 || *supersample > 8 {
		return nil, fmt.Errorf("supersample must be between 1 and 8, got %d", *supersample)
	}
	if *iterations == 0 || uint64(*iterations) > math.MaxUint32 {
		return nil, fmt.Errorf("iterations must be in [1, %d]", uint64(math.MaxUint32))
	}
	if *scale <= 0 {
		return nil, fmt.Errorf("scale must be positive, got %v", *scale)
	}

	cfg.Backend = mandelbrot.Backend(*backend)
	cfg.KernelPath = *kernelPath
	cfg.Workers = *workers
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &options{
		width:  *width,
		height: *height,
		view: mandelbrot.View{
			CenterX:       float32(*cx),
			CenterY:       float32(*cy),
			Scale:         float32(*scale),
			MaxIterations: uint32(*iterations),
		},
		supersample: *supersample,
		output:      *output,
		verbose:     *verbose,
		config:      cfg,
	}, nil
}

func run(opts *options) error {
	g, err := mandelbrot.New(opts.config)
	if err != nil {
		return err
	}
	defer g.Close()

	img, err := render(g, opts)
	if err != nil {
		return err
	}

	dst, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	if err := encode(dst, opts.output, img); err != nil {
		if dst != os.Stdout {
			_ = dst.Close()
		}
		return err
	}
	if dst != os.Stdout {
		if err := dst.Close(); err != nil {
			return err
		}
		log.Printf("Rendered %s (%dx%d) on %s", opts.output, opts.width, opts.height, g.Device())
	}
	return nil
}

// render draws the frame, supersampled when requested.
func render(g *mandelbrot.Generator, opts *options) (image.Image, error) {
	n := opts.supersample
	view := opts.view
	view.Scale /= float32(n)
	g.SetView(view)

	w, h := opts.width*n, opts.height*n
	if err := g.SetSize(w, h); err != nil {
		return nil, err
	}
	pix, err := g.Image()
	if err != nil {
		return nil, err
	}
	img := mandelbrot.ToImage(pix, w, h)
	if n == 1 {
		return img, nil
	}
	return imaging.Resize(img, opts.width, opts.height, imaging.Lanczos), nil
}

// openOutput opens the destination, refusing to write binary data to a
// terminal.
func openOutput(path string) (*os.File, error) {
	if path == pipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, fmt.Errorf("`-` should be used with a pipe for stdout")
		}
		return os.Stdout, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("unable to create the destination file: %w", err)
	}
	return f, nil
}
