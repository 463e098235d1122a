package caption

import (
	"fmt"
	"strconv"
)

// Fade derives the recency color ramp from a base color. Slot 0 (newest)
// keeps the full base color; older slots dim linearly down to a 20%
// floor: factor(i) = max(0.2, 1 - i/(MaxHistory*1.5)).
//
// A base that is not a #rrggbb triple (a symbolic color name) cannot be
// scaled, so every slot gets the base unchanged. That is a documented
// simplification, not an error.
func Fade(base string) [MaxHistory]string {
	var ramp [MaxHistory]string

	r, g, b, ok := parseHex(base)
	if !ok {
		for i := range ramp {
			ramp[i] = base
		}
		return ramp
	}

	for i := range ramp {
		f := FadeFactor(i)
		ramp[i] = fmt.Sprintf("#%02x%02x%02x",
			uint8(float64(r)*f), uint8(float64(g)*f), uint8(float64(b)*f))
	}
	return ramp
}

// FadeFactor returns the brightness factor for history slot i.
func FadeFactor(i int) float64 {
	f := 1.0 - float64(i)/(MaxHistory*1.5)
	if f < 0.2 {
		return 0.2
	}
	return f
}

func parseHex(color string) (r, g, b uint8, ok bool) {
	if len(color) != 7 || color[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(color[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}
