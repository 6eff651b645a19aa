package renderer

import (
	"image"

	"golang.org/x/image/draw"
)

// ScaledSize returns the traced resolution for a display size and render scale, never below 1x1
func ScaledSize(width, height int, scale float32) (int, int) {
	if scale <= 0 || scale >= 1 {
		return width, height
	}
	return max(1, int(float32(width)*scale+0.5)), max(1, int(float32(height)*scale+0.5))
}

// UpscaleToDisplay stretches a reduced-resolution frame to the display size.
// Frames already at display size are returned unchanged.
func UpscaleToDisplay(src *image.RGBA, width, height int) *image.RGBA {
	if src.Bounds().Dx() == width && src.Bounds().Dy() == height {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
