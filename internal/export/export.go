// Package export writes generated volumes as raw bytes and slice images.
package export

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"volnoise/internal/core"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format names an image encoding for slices.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// Formats lists the supported slice encodings.
func Formats() []Format { return []Format{PNG, BMP, TIFF} }

// ParseFormat accepts a format name or file extension, with or without a dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("unsupported image format %q, expected one of %v", s, Formats())
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// WriteRaw stores the interleaved volume bytes as-is.
func WriteRaw(path string, v *core.Volume) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(v.Bytes()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SliceImage converts z-slice z to an image. One channel becomes gray, two
// become gray plus alpha, three are opaque color and four carry alpha.
func SliceImage(v *core.Volume, z int) image.Image {
	size := v.Size()
	rect := image.Rect(0, 0, size.W, size.H)
	src := v.Slice(z)
	ch := v.Channels()

	if ch == 1 {
		img := image.NewGray(rect)
		for y := 0; y < size.H; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+size.W], src[y*size.W:(y+1)*size.W])
		}
		return img
	}

	img := image.NewNRGBA(rect)
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			p := src[(y*size.W+x)*ch:]
			var c color.NRGBA
			switch ch {
			case 2:
				c = color.NRGBA{R: p[0], G: p[0], B: p[0], A: p[1]}
			case 3:
				c = color.NRGBA{R: p[0], G: p[1], B: p[2], A: 0xff}
			default:
				c = color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("unsupported image format %q", format)
}

// WriteSlice encodes z-slice z to path. An empty format is inferred from the
// path's extension.
func WriteSlice(path string, v *core.Volume, z int, format Format) error {
	if format == "" {
		var err error
		if format, err = ParseFormat(filepath.Ext(path)); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := Encode(w, SliceImage(v, z), format); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SlicePath returns <dir>/<name>Slice<z><ext>.
func SlicePath(dir, name string, z int, format Format) string {
	return filepath.Join(dir, name+"Slice"+strconv.Itoa(z)+format.Ext())
}

// WriteSlices writes every z-slice of v and returns the paths written.
func WriteSlices(dir, name string, v *core.Volume, format Format) ([]string, error) {
	paths := make([]string, 0, v.Size().D)
	for z := 0; z < v.Size().D; z++ {
		p := SlicePath(dir, name, z, format)
		if err := WriteSlice(p, v, z, format); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
