package entity

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB цвет в порядке каналов R, G, B
type RGB [3]uint8

// ColorRange включительный диапазон по каждому каналу
type ColorRange struct {
	Lower RGB
	Upper RGB
}

// Contains проверяет, что все каналы лежат внутри [Lower, Upper].
func (c ColorRange) Contains(r, g, b uint8) bool {
	return r >= c.Lower[0] && r <= c.Upper[0] &&
		g >= c.Lower[1] && g <= c.Upper[1] &&
		b >= c.Lower[2] && b <= c.Upper[2]
}

// ParseHexColor разбирает цвет вида #rrggbb или #rgb.
func ParseHexColor(param, hex string) (RGB, error) {
	s := strings.TrimSpace(hex)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, InvalidArgument(param, hex, "expected #rrggbb")
	}
	r, g, b := c.RGB255()
	return RGB{r, g, b}, nil
}

// ParseColorRange разбирает пару hex-цветов.
func ParseColorRange(lower, upper string) (ColorRange, error) {
	lo, err := ParseHexColor("color_lower", lower)
	if err != nil {
		return ColorRange{}, err
	}
	hi, err := ParseHexColor("color_upper", upper)
	if err != nil {
		return ColorRange{}, err
	}
	return ColorRange{Lower: lo, Upper: hi}, nil
}
