package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	logoRatio   = 0.15 // logo edge relative to the QR width
	logoPadding = 10   // white margin around the logo on each side
)

// overlayLogo pastes logo, scaled to 15% of img's width on a white pad,
// over the centre of img.
func overlayLogo(img image.Image, logo image.Image) (image.Image, error) {
	b := img.Bounds()
	size := int(float64(b.Dx()) * logoRatio)
	if size < 1 {
		return nil, fmt.Errorf("image too small for a logo (%dpx)", b.Dx())
	}

	scaled := imaging.Resize(logo, size, size, imaging.Lanczos)
	pad := imaging.New(size+2*logoPadding, size+2*logoPadding, color.White)
	pad = imaging.Overlay(pad, scaled, image.Pt(logoPadding, logoPadding), 1.0)

	pos := image.Pt((b.Dx()-pad.Bounds().Dx())/2, (b.Dy()-pad.Bounds().Dy())/2)
	return imaging.Paste(img, pad, pos), nil
}

// DecodeLogo reads a logo from raw image bytes or from a data URL
// ("data:image/png;base64,...").
func DecodeLogo(s string) (image.Image, error) {
	raw := []byte(s)
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 || !strings.Contains(s[:comma], ";base64") {
			return nil, fmt.Errorf("%w: logo must be a base64 data URL", ErrInvalidOption)
		}
		var err error
		raw, err = base64.StdEncoding.DecodeString(s[comma+1:])
		if err != nil {
			return nil, fmt.Errorf("%w: logo: %v", ErrInvalidOption, err)
		}
	}
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: logo: %v", ErrInvalidOption, err)
	}
	return img, nil
}

// OpenLogo loads a logo image from disk.
func OpenLogo(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open logo %s: %w", path, err)
	}
	return img, nil
}
