package draw

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadColor is returned by ParseHex for strings that are not "#rrggbb".
var ErrBadColor = errors.New("color must be #rrggbb")

// Color is a 24-bit terminal color. The zero value is the terminal's default color.
type Color uint32

const colorSet = 1 << 24

// Default leaves the terminal's own color in place.
const Default Color = 0

// Palette used by the interface chrome.
var (
	White    = RGB(0xff, 0xff, 0xff)
	Gray     = RGB(0x80, 0x80, 0x80)
	DarkGray = RGB(0x3a, 0x3a, 0x3a)
	Black    = RGB(0x00, 0x00, 0x00)
	Cyan     = RGB(0x00, 0xf2, 0xfe)
	Red      = RGB(0xff, 0x33, 0x33)
	Yellow   = RGB(0xff, 0xdd, 0x00)
)

// RGB builds a color from its components.
func RGB(r, g, b uint8) Color {
	return Color(colorSet | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// ParseHex parses "#rrggbb" (the leading '#' is optional).
func ParseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return Default, fmt.Errorf("%q: %w", s, ErrBadColor)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Default, fmt.Errorf("%q: %w", s, ErrBadColor)
	}
	return Color(colorSet | uint32(v)), nil
}

// Components returns the red, green and blue parts.
func (c Color) Components() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// IsDefault reports whether c is the terminal default.
func (c Color) IsDefault() bool {
	return c&colorSet == 0
}

// Scale darkens (f < 1) or brightens (f > 1) the color, clamping each channel.
func (c Color) Scale(f float64) Color {
	if c.IsDefault() {
		return c
	}
	r, g, b := c.Components()
	return RGB(scaleChannel(r, f), scaleChannel(g, f), scaleChannel(b, f))
}

func scaleChannel(v uint8, f float64) uint8 {
	x := float64(v) * f
	if x > 255 {
		return 255
	}
	if x < 0 {
		return 0
	}
	return uint8(x)
}

// appendFG appends the escape sequence selecting c as foreground color.
func appendFG(dst []byte, c Color) []byte {
	if c.IsDefault() {
		return append(dst, "\033[39m"...)
	}
	return appendRGB(append(dst, "\033[38;2;"...), c)
}

// appendBG appends the escape sequence selecting c as background color.
func appendBG(dst []byte, c Color) []byte {
	if c.IsDefault() {
		return append(dst, "\033[49m"...)
	}
	return appendRGB(append(dst, "\033[48;2;"...), c)
}

func appendRGB(dst []byte, c Color) []byte {
	r, g, b := c.Components()
	dst = strconv.AppendUint(dst, uint64(r), 10)
	dst = append(dst, ';')
	dst = strconv.AppendUint(dst, uint64(g), 10)
	dst = append(dst, ';')
	dst = strconv.AppendUint(dst, uint64(b), 10)
	return append(dst, 'm')
}
