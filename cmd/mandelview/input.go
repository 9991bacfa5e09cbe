package main

import (
	"math"

	"github.com/gogpu/mandelbrot"
)

const (
	// panPixels is how far one frame of a held arrow key moves the view.
	panPixels = 8
	// zoomStep is the scale factor of one frame of a held zoom key or one
	// wheel notch.
	zoomStep = 1.05
	// iterationStep is the iteration bound change per bracket press.
	iterationStep = 50
)

// input is the viewer's control state for one frame.
type input struct {
	left, right, up, down bool
	zoomIn, zoomOut       bool
	more, fewer           bool
	reset                 bool
	wheel                 float64
}

// apply returns v moved by one frame of input.
func (in input) apply(v mandelbrot.View) mandelbrot.View {
	if in.reset {
		return mandelbrot.DefaultView
	}

	step := v.Scale * panPixels
	if in.left {
		v.CenterX -= step
	}
	if in.right {
		v.CenterX += step
	}
	if in.up {
		v.CenterY -= step
	}
	if in.down {
		v.CenterY += step
	}

	notches := in.wheel
	if in.zoomIn {
		notches++
	}
	if in.zoomOut {
		notches--
	}
	if notches != 0 {
		scale := float64(v.Scale) / math.Pow(zoomStep, notches)
		if scale > 0 && scale < math.MaxFloat32 {
			v.Scale = float32(scale)
		}
	}

	if in.more && v.MaxIterations <= math.MaxUint32-iterationStep {
		v.MaxIterations += iterationStep
	}
	if in.fewer && v.MaxIterations > iterationStep {
		v.MaxIterations -= iterationStep
	}
	return v
}
