package qrgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openclaw/qrforge/render"
)

// Template is a named style preset. Explicit request fields win over it.
type Template struct {
	FgColor       string
	BgColor       string
	GradientType  string
	GradientColor string
	Style         string
}

var templates = map[string]Template{
	"business": {FgColor: "#667eea", BgColor: "#FFFFFF", GradientType: render.GradientLinear, GradientColor: "#764ba2", Style: render.StyleRounded},
	"social":   {FgColor: "#f093fb", BgColor: "#FFFFFF", GradientType: render.GradientRadial, GradientColor: "#f5576c", Style: render.StyleCircle},
	"minimal":  {FgColor: "#000000", BgColor: "#FFFFFF", GradientType: render.GradientNone, Style: render.StyleSquare},
	"modern":   {FgColor: "#4facfe", BgColor: "#FFFFFF", GradientType: render.GradientLinear, GradientColor: "#00f2fe", Style: render.StyleRounded},
}

// Templates returns the preset names in sorted order.
func Templates() []string {
	names := make([]string, 0, len(templates))
	for n := range templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupTemplate returns the preset called name.
func LookupTemplate(name string) (Template, error) {
	t, ok := templates[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Template{}, fmt.Errorf("%w: template %q", render.ErrInvalidOption, name)
	}
	return t, nil
}

func (t Template) apply(o *render.Options) {
	o.FgColor = t.FgColor
	o.BgColor = t.BgColor
	o.GradientType = t.GradientType
	if t.GradientColor != "" {
		o.GradientColor = t.GradientColor
	}
	o.Style = t.Style
}
