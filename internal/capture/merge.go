package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"kidsnews/internal/record"

	"github.com/fogleman/gg"
)

// MergedFile is the name of the combined newspaper image.
const MergedFile = "full_newspaper_long.png"

// ErrNothingToMerge is returned by Merge when no paths are given.
var ErrNothingToMerge = errors.New("no images to merge")

// Merge stacks the PNG images at paths top to bottom on a white canvas as
// wide as the widest image and writes the result to out.
func Merge(paths []string, out string) error {
	if len(paths) == 0 {
		return ErrNothingToMerge
	}
	imgs := make([]image.Image, 0, len(paths))
	width, height := 0, 0
	for _, p := range paths {
		img, err := gg.LoadPNG(p)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
		b := img.Bounds()
		if b.Dx() > width {
			width = b.Dx()
		}
		height += b.Dy()
		imgs = append(imgs, img)
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	y := 0
	for _, img := range imgs {
		dc.DrawImage(img, 0, y)
		y += img.Bounds().Dy()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return fmt.Errorf("failed to encode merged image: %w", err)
	}
	if err := record.WriteFileAtomic(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write merged image: %w", err)
	}
	return nil
}
