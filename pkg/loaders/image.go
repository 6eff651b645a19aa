package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/webp" // WebP decoder
)

// ImageFormat names a frame encoding
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatWebP ImageFormat = "webp"
	FormatTGA  ImageFormat = "tga"
)

// FormatFromFilename picks the encoding from a file extension
func FormatFromFilename(filename string) (ImageFormat, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ImageFormat(ext) {
	case FormatPNG, FormatWebP, FormatTGA:
		return ImageFormat(ext), nil
	case "":
		return "", fmt.Errorf("no file extension in %q", filename)
	default:
		return "", fmt.Errorf("unsupported image format %q", ext)
	}
}

// EncodeImage writes img to w in the given format
func EncodeImage(w io.Writer, img image.Image, format ImageFormat) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		return nativewebp.Encode(w, img, nil)
	case FormatTGA:
		return tga.Encode(w, img)
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}

// SaveImage writes img to filename, choosing the encoding from the extension
func SaveImage(filename string, img image.Image) error {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	if err := EncodeImage(file, img, format); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return file.Close()
}

// LoadImage decodes a PNG, JPEG, WebP or TGA file
func LoadImage(filename string) (image.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// TGA has no magic number, so it cannot go through image.Decode
	if strings.EqualFold(filepath.Ext(filename), ".tga") {
		img, err := tga.Decode(file)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		return img, nil
	}

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
