package tiled

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"volnoise/internal/channel"
	"volnoise/internal/core"
)

// SlicePattern returns the slice path pattern for a cubic blue noise volume
// of the given resolution. '#' stands for the slice index.
func SlicePattern(dir string, res int) string {
	r := strconv.Itoa(res)
	return filepath.Join(dir, r+"_"+r+"_"+r, "LDR_RGBA_#.png")
}

// LoadSlices reads res slices named by pattern, replacing '#' with the slice
// index, into a res^3 volume with the given channel count. Every slice must
// be res x res.
func LoadSlices(pattern string, res, channels int) (*core.Volume, error) {
	if !strings.Contains(pattern, "#") {
		return nil, fmt.Errorf("%w: slice pattern %q has no '#'", channel.ErrResource, pattern)
	}
	vol := core.NewVolume(core.Size{W: res, H: res, D: res}, channels)
	for z := 0; z < res; z++ {
		path := strings.Replace(pattern, "#", strconv.Itoa(z), 1)
		data, err := readSlice(path, res, channels)
		if err != nil {
			return nil, err
		}
		if err := vol.SetSlice(z, data); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", channel.ErrResource, path, err)
		}
	}
	return vol, nil
}

func readSlice(path string, res, channels int) ([]uint8, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", channel.ErrResource, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", channel.ErrResource, path, err)
	}
	b := img.Bounds()
	if b.Dx() != res || b.Dy() != res {
		return nil, fmt.Errorf("%w: %s is %dx%d, expected %dx%d", channel.ErrResource, path, b.Dx(), b.Dy(), res, res)
	}

	// Decoded RGBA PNGs are already non-premultiplied; anything else goes
	// through draw, which is exact for opaque and gray images.
	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(image.Rect(0, 0, res, res))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}

	out := make([]uint8, 0, res*res*channels)
	for y := 0; y < res; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+res*4]
		for x := 0; x < res; x++ {
			out = append(out, row[x*4:x*4+channels]...)
		}
	}
	return out, nil
}
