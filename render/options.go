package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
)

// ErrInvalidOption is returned for render options that cannot be honoured.
var ErrInvalidOption = errors.New("invalid render option")

// Module drawers.
const (
	StyleSquare  = "square"
	StyleRounded = "rounded"
	StyleCircle  = "circle"
	StyleGapped  = "gapped"
)

// Colour masks.
const (
	GradientNone   = "none"
	GradientLinear = "linear"
	GradientRadial = "radial"
)

// Frames.
const (
	FrameNone    = "none"
	FrameSimple  = "simple"
	FrameRounded = "rounded"
	FrameShadow  = "shadow"
)

// Box size and border bounds, in pixels per module and modules respectively.
const (
	MinBoxSize = 1
	MaxBoxSize = 50
	MaxBorder  = 20
)

// Options describes how a symbol is drawn and post-processed.
type Options struct {
	ErrorCorrection string // L, M, Q or H
	BoxSize         int
	Border          int

	Style         string
	FgColor       string
	BgColor       string
	GradientType  string
	GradientColor string

	FrameStyle string
	LabelText  string
	Logo       image.Image

	Format Format
}

// DefaultOptions mirrors the web form's initial state.
func DefaultOptions() Options {
	return Options{
		ErrorCorrection: "M",
		BoxSize:         10,
		Border:          4,
		Style:           StyleSquare,
		FgColor:         "#000000",
		BgColor:         "#FFFFFF",
		GradientType:    GradientNone,
		GradientColor:   "#6366f1",
		FrameStyle:      FrameNone,
		Format:          FormatPNG,
	}
}

// plan is Options after parsing, ready for drawing.
type plan struct {
	level    qrcode.RecoveryLevel
	box      int
	border   int
	style    string
	fg       color.RGBA
	bg       color.RGBA
	gradient string
	edge     color.RGBA
	frame    string
	label    string
	logo     image.Image
	format   Format
}

// Validate reports whether o can be rendered.
func (o Options) Validate() error {
	_, _, err := o.resolve()
	return err
}

// resolve parses o. Unknown style, gradient and frame names are not errors:
// they degrade to the plain variant and are reported in notes.
func (o Options) resolve() (plan, []string, error) {
	var notes []string
	p := plan{
		level:  RecoveryLevel(o.ErrorCorrection),
		box:    o.BoxSize,
		border: o.Border,
		label:  strings.TrimSpace(o.LabelText),
		logo:   o.Logo,
		format: o.Format,
	}

	if p.box < MinBoxSize || p.box > MaxBoxSize {
		return plan{}, nil, fmt.Errorf("%w: box size %d outside %d-%d", ErrInvalidOption, p.box, MinBoxSize, MaxBoxSize)
	}
	if p.border < 0 || p.border > MaxBorder {
		return plan{}, nil, fmt.Errorf("%w: border %d outside 0-%d", ErrInvalidOption, p.border, MaxBorder)
	}

	var err error
	if p.fg, err = ParseHexColor(o.FgColor); err != nil {
		return plan{}, nil, fmt.Errorf("%w: fgColor: %v", ErrInvalidOption, err)
	}
	if p.bg, err = ParseHexColor(o.BgColor); err != nil {
		return plan{}, nil, fmt.Errorf("%w: bgColor: %v", ErrInvalidOption, err)
	}

	if p.format == "" {
		p.format = FormatPNG
	}
	if _, ok := mimeTypes[p.format]; !ok {
		return plan{}, nil, fmt.Errorf("%w: format %q", ErrInvalidOption, o.Format)
	}

	switch s := strings.ToLower(o.Style); s {
	case "", StyleSquare:
		p.style = StyleSquare
	case StyleRounded, StyleCircle, StyleGapped:
		p.style = s
	default:
		p.style = StyleSquare
		notes = append(notes, fmt.Sprintf("unknown style %q, using square", o.Style))
	}

	switch g := strings.ToLower(o.GradientType); g {
	case "", GradientNone:
		p.gradient = GradientNone
	case GradientLinear, GradientRadial:
		p.gradient = g
		if p.edge, err = ParseHexColor(o.GradientColor); err != nil {
			return plan{}, nil, fmt.Errorf("%w: gradientColor: %v", ErrInvalidOption, err)
		}
	default:
		p.gradient = GradientNone
		notes = append(notes, fmt.Sprintf("unknown gradient %q, using solid fill", o.GradientType))
	}

	switch f := strings.ToLower(o.FrameStyle); f {
	case "", FrameNone:
		p.frame = FrameNone
	case FrameSimple, FrameRounded, FrameShadow:
		p.frame = f
	default:
		p.frame = FrameSimple
		notes = append(notes, fmt.Sprintf("unknown frame %q, padding only", o.FrameStyle))
	}

	return p, notes, nil
}

// RecoveryLevel maps an L/M/Q/H letter to a go-qrcode recovery level.
// Anything unrecognised yields Medium.
func RecoveryLevel(letter string) qrcode.RecoveryLevel {
	switch strings.ToUpper(strings.TrimSpace(letter)) {
	case "L":
		return qrcode.Low
	case "Q":
		return qrcode.High
	case "H":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// ParseHexColor parses "#RGB" or "#RRGGBB" (the leading # is optional).
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("malformed colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("malformed colour %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
