package theme

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// FallbackColor is used for label colors missing from the palette.
const FallbackColor = "gray"

// Palette maps label color names to rendered #rrggbb values.
type Palette map[string]string

var defaults = Palette{
	"gray":   "#8d8d8d",
	"red":    "#d9534f",
	"orange": "#f0ad4e",
	"yellow": "#e8c547",
	"green":  "#5cb85c",
	"teal":   "#4db6ac",
	"blue":   "#4a90d9",
	"purple": "#8e6bbf",
	"pink":   "#e57ca8",
	"brown":  "#8b6b4a",
}

// Default returns a copy of the built-in palette.
func Default() Palette {
	p := make(Palette, len(defaults))
	for k, v := range defaults {
		p[k] = v
	}
	return p
}

// New returns the default palette with overrides applied. Override values
// may be any hex form go-colorful accepts; they are normalized to #rrggbb.
func New(overrides map[string]string) (Palette, error) {
	p := Default()
	for name, value := range overrides {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			return nil, fmt.Errorf("empty color name")
		}
		c, err := colorful.Hex(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid color %q for %q: %w", value, name, err)
		}
		p[name] = c.Hex()
	}
	return p, nil
}

// Resolve returns the rendered value for a color name.
func (p Palette) Resolve(name string) string {
	if v, ok := p[strings.ToLower(name)]; ok {
		return v
	}
	if v, ok := p[FallbackColor]; ok {
		return v
	}
	return defaults[FallbackColor]
}

// Names returns the palette's color names in sorted order.
func (p Palette) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is a known color.
func (p Palette) Has(name string) bool {
	_, ok := p[strings.ToLower(name)]
	return ok
}
