package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

const (
	framePadding     = 40
	frameInset       = 10
	frameRadius      = 20
	frameLineWidth   = 4
	shadowOffset     = 5
	shadowBlurRadius = 10
)

var shadowGrey = color.RGBA{R: 204, G: 204, B: 204, A: 0xff}

// addFrame pads img by 40px of white and decorates the margin per style.
func addFrame(img image.Image, style string, fg color.Color) image.Image {
	b := img.Bounds()
	w, h := b.Dx()+2*framePadding, b.Dy()+2*framePadding
	origin := image.Pt(framePadding, framePadding)

	switch style {
	case FrameShadow:
		dc := gg.NewContext(w, h)
		dc.SetColor(color.White)
		dc.Clear()
		dc.SetColor(shadowGrey)
		dc.DrawRectangle(framePadding+shadowOffset, framePadding+shadowOffset, float64(b.Dx()), float64(b.Dy()))
		dc.Fill()
		shadow := imaging.Blur(dc.Image(), shadowBlurRadius)
		return imaging.Paste(shadow, img, origin)

	case FrameRounded:
		framed := imaging.Paste(imaging.New(w, h, color.White), img, origin)
		dc := gg.NewContextForImage(framed)
		dc.DrawRoundedRectangle(frameInset, frameInset, float64(w-2*frameInset), float64(h-2*frameInset), frameRadius)
		dc.SetColor(fg)
		dc.SetLineWidth(frameLineWidth)
		dc.Stroke()
		return dc.Image()

	default:
		return imaging.Paste(imaging.New(w, h, color.White), img, origin)
	}
}
