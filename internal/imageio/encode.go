// Package imageio writes rendered frames in the host's output formats.
package imageio

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"github.com/ftrvxmtrx/tga"
)

// Format is an output image encoding.
type Format int

const (
	JPEG Format = iota
	PNG
	BMP
	TIFF
	TARGA
	WEBP
)

var formatNames = map[string]Format{
	"JPEG":  JPEG,
	"JPG":   JPEG,
	"PNG":   PNG,
	"BMP":   BMP,
	"TIFF":  TIFF,
	"TIF":   TIFF,
	"TARGA": TARGA,
	"TGA":   TARGA,
	"WEBP":  WEBP,
}

func (f Format) String() string {
	switch f {
	case JPEG:
		return "JPEG"
	case PNG:
		return "PNG"
	case BMP:
		return "BMP"
	case TIFF:
		return "TIFF"
	case TARGA:
		return "TARGA"
	case WEBP:
		return "WEBP"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat resolves a format name case-insensitively.
func ParseFormat(name string) (Format, error) {
	f, ok := formatNames[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("imageio: unknown format %q", name)
	}
	return f, nil
}

// Encode writes img to w. quality applies to JPEG only; WEBP output is lossless.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	switch f {
	case JPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case PNG:
		return imaging.Encode(w, img, imaging.PNG)
	case BMP:
		return imaging.Encode(w, img, imaging.BMP)
	case TIFF:
		return imaging.Encode(w, img, imaging.TIFF)
	case TARGA:
		return tga.Encode(w, img)
	case WEBP:
		return nativewebp.Encode(w, img, nil)
	}
	return fmt.Errorf("imageio: unsupported format %s", f)
}

// Save encodes img to path, creating parent directories as needed.
func Save(path string, img image.Image, f Format, quality int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("imageio: mkdir for %s: %w", path, err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}

	if err := Encode(out, img, f, quality); err != nil {
		out.Close()
		return fmt.Errorf("imageio: encode %s as %s: %w", path, f, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("imageio: close %s: %w", path, err)
	}
	return nil
}
