package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// encode writes img in the format named by the extension of path.
func encode(w io.Writer, path string, img image.Image) error {
	if path == pipeName {
		return png.Encode(w, img)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}
}
