// CLAUDE:SUMMARY CSS color value type: parses named/hex/rgb()/hsl() syntax and renders rgb(a) and hex forms.
// Package csscolor parses CSS color syntax into RGBA values and renders the
// canonical serialisations browsers use for computed colors.
//
// Parsing never reaches for a browser: the grammar covers named colors, hex
// (3, 4, 6 and 8 digits), rgb()/rgba() and hsl()/hsla() in both the comma and
// the space-separated syntax. Parse fails closed to opaque black.
package csscolor

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned by ParseStrict for text outside the grammar.
var ErrInvalidColor = errors.New("csscolor: invalid color")

// Value is an sRGB color with 8-bit channels and a real alpha in [0, 1].
// Values are immutable and compare with ==.
type Value struct {
	R, G, B uint8
	A       float64
}

var (
	Black       = Value{A: 1}
	White       = Value{R: 255, G: 255, B: 255, A: 1}
	Transparent = Value{}
)

// level4Names are named colors newer than the SVG table in colornames.
var level4Names = map[string]Value{
	"rebeccapurple": {R: 102, G: 51, B: 153, A: 1},
}

// RGBA builds a Value from channels. Alpha is clamped to [0, 1] and snapped
// to 0 or 1 when it would quantise to the 8-bit extremes.
func RGBA(r, g, b uint8, a float64) Value {
	return Value{R: r, G: g, B: b, A: normAlpha(a)}
}

// Parse converts CSS color text to a Value. Text the grammar rejects yields
// opaque black, never an error.
func Parse(text string) Value {
	v, err := ParseStrict(text)
	if err != nil {
		return Black
	}
	return v
}

// ParseStrict is Parse with failures reported as ErrInvalidColor.
func ParseStrict(text string) (Value, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	switch {
	case s == "":
		return Value{}, fmt.Errorf("%w: empty", ErrInvalidColor)
	case s == "transparent":
		return Transparent, nil
	case strings.HasPrefix(s, "#"):
		if v, ok := parseHex(s[1:]); ok {
			return v, nil
		}
	case strings.HasPrefix(s, "rgb"), strings.HasPrefix(s, "hsl"):
		if v, ok := parseFunc(s); ok {
			return v, nil
		}
	default:
		if c, ok := colornames.Map[s]; ok {
			return Value{R: c.R, G: c.G, B: c.B, A: 1}, nil
		}
		if v, ok := level4Names[s]; ok {
			return v, nil
		}
	}
	return Value{}, fmt.Errorf("%w: %q", ErrInvalidColor, text)
}

// HasTransparency reports whether alpha is below 1.
func (v Value) HasTransparency() bool { return v.A < 1 }

// IsTransparent reports whether the color is fully transparent.
func (v Value) IsTransparent() bool { return v.A == 0 }

// RGB renders rgb(r, g, b) for opaque colors and rgba(r, g, b, a) otherwise,
// matching the computed-style serialisation.
func (v Value) RGB() string {
	if v.A == 1 {
		return fmt.Sprintf("rgb(%d, %d, %d)", v.R, v.G, v.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", v.R, v.G, v.B, formatAlpha(v.A))
}

// String implements fmt.Stringer.
func (v Value) String() string { return v.RGB() }

// Hex renders #rrggbb. Alpha is not represented.
func (v Value) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", v.R, v.G, v.B)
}

// Hex8 renders #rrggbbaa with the alpha byte round(A*255).
func (v Value) Hex8() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", v.R, v.G, v.B, alphaByte(v.A))
}

// DisplayHex is Hex for opaque colors and Hex8 for translucent ones; it is the
// copy value shown next to a sample.
func (v Value) DisplayHex() string {
	if v.HasTransparency() {
		return v.Hex8()
	}
	return v.Hex()
}

func alphaByte(a float64) uint8 {
	return uint8(math.Round(a * 255))
}

func normAlpha(a float64) float64 {
	switch {
	case math.IsNaN(a), a <= 0:
		return 0
	case a >= 1:
		return 1
	}
	switch alphaByte(a) {
	case 0:
		return 0
	case 255:
		return 1
	}
	return a
}

// formatAlpha prints the shortest of two or three decimals that still maps to
// the same alpha byte.
func formatAlpha(a float64) string {
	b := alphaByte(a)
	for _, prec := range []int{2, 3} {
		r := roundTo(a, prec)
		if alphaByte(r) == b {
			return strconv.FormatFloat(r, 'f', -1, 64)
		}
	}
	return strconv.FormatFloat(a, 'f', -1, 64)
}

func roundTo(f float64, prec int) float64 {
	p := math.Pow(10, float64(prec))
	return math.Round(f*p) / p
}

func parseHex(h string) (Value, bool) {
	for _, r := range h {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return Value{}, false
		}
	}
	nib := func(i int) uint8 {
		n, _ := strconv.ParseUint(h[i:i+1], 16, 8)
		return uint8(n * 17)
	}
	byt := func(i int) uint8 {
		n, _ := strconv.ParseUint(h[i:i+2], 16, 8)
		return uint8(n)
	}
	switch len(h) {
	case 3:
		return Value{R: nib(0), G: nib(1), B: nib(2), A: 1}, true
	case 4:
		return RGBA(nib(0), nib(1), nib(2), float64(nib(3))/255), true
	case 6:
		return Value{R: byt(0), G: byt(2), B: byt(4), A: 1}, true
	case 8:
		return RGBA(byt(0), byt(2), byt(4), float64(byt(6))/255), true
	}
	return Value{}, false
}

// parseFunc handles rgb(), rgba(), hsl() and hsla() in legacy comma syntax
// and in the space syntax with an optional "/ alpha".
func parseFunc(s string) (Value, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return Value{}, false
	}
	name := strings.TrimSpace(s[:open])
	args, ok := splitArgs(s[open+1 : len(s)-1])
	if !ok {
		return Value{}, false
	}

	alpha := 1.0
	if len(args) == 4 {
		a, ok := parseAlpha(args[3])
		if !ok {
			return Value{}, false
		}
		alpha = a
	}

	switch name {
	case "rgb", "rgba":
		var ch [3]uint8
		for i := range ch {
			c, ok := parseChannel(args[i])
			if !ok {
				return Value{}, false
			}
			ch[i] = c
		}
		return RGBA(ch[0], ch[1], ch[2], alpha), true

	case "hsl", "hsla":
		h, ok := parseHue(args[0])
		if !ok {
			return Value{}, false
		}
		sat, ok1 := parsePercent(args[1])
		lum, ok2 := parsePercent(args[2])
		if !ok1 || !ok2 {
			return Value{}, false
		}
		r, g, b := colorful.Hsl(h, sat, lum).Clamped().RGB255()
		return RGBA(r, g, b, alpha), true
	}
	return Value{}, false
}

func splitArgs(body string) ([]string, bool) {
	var parts []string
	if strings.Contains(body, ",") {
		parts = strings.Split(body, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
	} else {
		fields := strings.Fields(strings.ReplaceAll(body, "/", " / "))
		switch {
		case len(fields) == 3:
			parts = fields
		case len(fields) == 5 && fields[3] == "/":
			parts = append(fields[:3:3], fields[4])
		default:
			return nil, false
		}
	}
	if len(parts) != 3 && len(parts) != 4 {
		return nil, false
	}
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
	}
	return parts, true
}

func parseChannel(s string) (uint8, bool) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, false
		}
		return clampByte(f * 255 / 100), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clampByte(f), true
}

func clampByte(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, f))))
}

func parseAlpha(s string) (float64, bool) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, false
		}
		return f / 100, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parsePercent returns a fraction in [0, 1]. Bare numbers are accepted as
// percentages, as the space syntax allows.
func parsePercent(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, false
	}
	return math.Max(0, math.Min(1, f/100)), true
}

func parseHue(s string) (float64, bool) {
	units := []struct {
		suffix string
		toDeg  float64
	}{
		{"deg", 1},
		{"grad", 0.9},
		{"rad", 180 / math.Pi},
		{"turn", 360},
	}
	scale := 1.0
	for _, u := range units {
		if v, ok := strings.CutSuffix(s, u.suffix); ok {
			s, scale = v, u.toDeg
			break
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	h := math.Mod(f*scale, 360)
	if h < 0 {
		h += 360
	}
	return h, true
}
