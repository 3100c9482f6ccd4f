// Package render turns content into a styled QR image. Symbol encoding is
// done by go-qrcode; drawing, gradients and post-processing by gg, imaging
// and x/image.
package render

import (
	"image"
	"log/slog"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/sfnt"
)

// Renderer draws QR images. It is safe for concurrent use.
type Renderer struct {
	fontPath string
	log      *slog.Logger

	fontOnce sync.Once
	font     *sfnt.Font
}

// NewRenderer creates a Renderer. fontPath may be empty; the label font is
// resolved lazily on first use.
func NewRenderer(fontPath string, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{fontPath: fontPath, log: log}
}

// Render encodes content and applies every step o asks for. Only encoding
// and option errors are returned; a failing logo, frame or label step is
// logged and skipped.
func (r *Renderer) Render(content string, o Options) (image.Image, error) {
	p, notes, err := o.resolve()
	if err != nil {
		return nil, err
	}
	for _, n := range notes {
		r.log.Warn("render option fallback", "detail", n)
	}

	mods, err := Modules(content, p.level)
	if err != nil {
		return nil, err
	}

	img := r.drawSymbol(matrix(mods), p)

	if p.logo != nil {
		if withLogo, err := overlayLogo(img, p.logo); err != nil {
			r.log.Warn("logo skipped", "error", err)
		} else {
			img = withLogo
		}
	}

	if p.frame != FrameNone {
		img = addFrame(img, p.frame, p.fg)
	}

	if p.label != "" {
		face, err := newFace(r.labelFont())
		if err != nil {
			r.log.Warn("label skipped", "error", err)
		} else {
			img = addLabel(img, p.label, p.fg, face)
			face.Close()
		}
	}

	return img, nil
}

// drawSymbol paints the background and the dark modules.
func (r *Renderer) drawSymbol(m matrix, p plan) image.Image {
	size := (len(m) + 2*p.border) * p.box
	dc := gg.NewContext(size, size)
	dc.SetColor(p.bg)
	dc.Clear()

	drawModules(dc, m, p.style, p.box, p.border)
	dc.SetFillStyle(colourMask(p, size))
	dc.Fill()
	return dc.Image()
}

func (r *Renderer) labelFont() *sfnt.Font {
	r.fontOnce.Do(func() {
		var src string
		r.font, src = loadFont(r.fontPath)
		r.log.Debug("label font loaded", "source", src)
	})
	return r.font
}
