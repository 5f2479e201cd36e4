// Package theme derives CSS custom properties from a brokerage's brand colors.
package theme

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Black is returned for malformed hex input
const Black = "0 0% 0%"

var hexPattern = regexp.MustCompile(`(?i)^#?([a-f\d]{2})([a-f\d]{2})([a-f\d]{2})$`)

// HSL is a color as hue degrees [0,360), saturation and lightness percentages [0,100]
type HSL struct {
	H float64
	S float64
	L float64
}

// String renders the triple in the "H S% L%" form consumed by hsl(var(--x))
func (c HSL) String() string {
	return formatNumber(c.H) + " " + formatNumber(c.S) + "% " + formatNumber(c.L) + "%"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// roundHalfUp matches the rounding used by browsers' Math.round for positive values
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// ParseHex converts a 6-digit hex color (optional #, any case) to HSL with each component rounded
func ParseHex(hex string) (HSL, bool) {
	m := hexPattern.FindStringSubmatch(hex)
	if m == nil {
		return HSL{}, false
	}

	channel := func(s string) float64 {
		v, _ := strconv.ParseUint(s, 16, 8)
		return float64(v) / 255
	}
	r, g, b := channel(m[1]), channel(m[2]), channel(m[3])

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	l := (maxC + minC) / 2

	var h, s float64
	if maxC != minC {
		d := maxC - minC
		if l > 0.5 {
			s = d / (2 - maxC - minC)
		} else {
			s = d / (maxC + minC)
		}

		switch maxC {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		default:
			h = (r-g)/d + 4
		}
		h /= 6
	}

	hue := roundHalfUp(h * 360)
	if hue >= 360 {
		hue -= 360
	}

	return HSL{
		H: hue,
		S: roundHalfUp(s * 100),
		L: roundHalfUp(l * 100),
	}, true
}

// HexToHSL converts a hex color to its "H S% L%" form. Malformed input yields "0 0% 0%".
func HexToHSL(hex string) string {
	c, ok := ParseHex(hex)
	if !ok {
		return Black
	}
	return c.String()
}

// ParseHSL parses the "H S% L%" form
func ParseHSL(s string) (HSL, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return HSL{}, fmt.Errorf("invalid hsl triple %q", s)
	}

	h, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return HSL{}, fmt.Errorf("invalid hue in %q: %w", s, err)
	}
	sat, err := parsePercent(fields[1])
	if err != nil {
		return HSL{}, fmt.Errorf("invalid saturation in %q: %w", s, err)
	}
	light, err := parsePercent(fields[2])
	if err != nil {
		return HSL{}, fmt.Errorf("invalid lightness in %q: %w", s, err)
	}

	if h < 0 || h >= 360 || sat < 0 || sat > 100 || light < 0 || light > 100 {
		return HSL{}, fmt.Errorf("hsl triple %q out of range", s)
	}
	return HSL{H: h, S: sat, L: light}, nil
}

func parsePercent(s string) (float64, error) {
	if !strings.HasSuffix(s, "%") {
		return 0, fmt.Errorf("missing %% in %q", s)
	}
	return strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
}

// Hex converts the triple back to an upper-case "#RRGGBB" color
func (c HSL) Hex() string {
	s, l := c.S/100, c.L/100
	chroma := (1 - math.Abs(2*l-1)) * s
	hp := c.H / 60
	x := chroma * (1 - math.Abs(math.Mod(hp, 2)-1))
	m := l - chroma/2

	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = chroma, x, 0
	case hp < 2:
		r, g, b = x, chroma, 0
	case hp < 3:
		r, g, b = 0, chroma, x
	case hp < 4:
		r, g, b = 0, x, chroma
	case hp < 5:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}

	toByte := func(v float64) int {
		n := int(roundHalfUp((v + m) * 255))
		return max(0, min(255, n))
	}
	return fmt.Sprintf("#%02X%02X%02X", toByte(r), toByte(g), toByte(b))
}
