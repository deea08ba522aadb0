package partindex

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// ColorCode keys every per-color structure. Values follow the LDraw
// color numbering.
type ColorCode int

const (
	// MainColor stands for "the color of the part itself".
	MainColor ColorCode = 16
	// EdgeColor is used for the edge lines drawn around parts.
	EdgeColor ColorCode = 24
)

func (c ColorCode) String() string {
	return strconv.Itoa(int(c))
}

type Color struct {
	Code  ColorCode
	Name  string
	Value color.RGBA
	Edge  color.RGBA
}

type ColorTable map[ColorCode]Color

func DefaultColorTable() ColorTable {
	colors := []Color{
		{Code: 0, Name: "Black", Value: rgb(0x1B2A34), Edge: rgb(0x808080)},
		{Code: 1, Name: "Blue", Value: rgb(0x1E5AA8), Edge: rgb(0x333333)},
		{Code: 2, Name: "Green", Value: rgb(0x00852B), Edge: rgb(0x333333)},
		{Code: 4, Name: "Red", Value: rgb(0xB40000), Edge: rgb(0x333333)},
		{Code: 7, Name: "Light_Grey", Value: rgb(0x8A928D), Edge: rgb(0x333333)},
		{Code: 14, Name: "Yellow", Value: rgb(0xFAC80A), Edge: rgb(0x333333)},
		{Code: 15, Name: "White", Value: rgb(0xF4F4F4), Edge: rgb(0x333333)},
		{Code: EdgeColor, Name: "Edge_Colour", Value: rgb(0x7F7F7F), Edge: rgb(0x333333)},
		{Code: 71, Name: "Light_Bluish_Grey", Value: rgb(0x969696), Edge: rgb(0x333333)},
	}

	t := make(ColorTable, len(colors))
	for _, c := range colors {
		t[c.Code] = c
	}
	return t
}

// Lookup falls back to a neutral grey for unknown codes.
func (t ColorTable) Lookup(code ColorCode) Color {
	if c, ok := t[code]; ok {
		return c
	}
	return Color{Code: code, Name: "Unknown", Value: rgb(0x7F7F7F), Edge: rgb(0x333333)}
}

func rgb(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// ParseHexColor accepts "#RRGGBB" or "RRGGBB".
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, errors.New("invalid color").WithTag("value", s)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.New("invalid color").
			WithTag("value", s).
			Wrap(err)
	}
	return rgb(uint32(v)), nil
}
