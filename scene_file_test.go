package partindex

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

const testSceneYAML = `
colors:
  - code: 4
    name: Bright_Red
    value: "#FF0000"
  - code: 99
    name: Custom
    value: "102030"
    edge: "#405060"
parts:
  - name: brick
    color: 4
    size: [20, 24, 40]
    position: [10, 0, 0]
  - color: 99
    size: [10, 10, 10]
    rotation: [0, 90, 0]
`

func TestDecodeSceneFile(t *testing.T) {
	f, err := DecodeSceneFile(strings.NewReader(testSceneYAML))
	require.NoError(t, err)
	require.Len(t, f.Colors, 2)
	require.Len(t, f.Entries, 2)

	parts := f.Parts()
	require.Len(t, parts, 2)

	require.Equal(t, "brick", parts[0].Name)
	require.Equal(t, ColorCode(4), parts[0].Color)
	requireVecAlmostEqual(t, mgl64.Vec3{10, 0, 0}, parts[0].TransformedBoundingBox.Min)
	requireVecAlmostEqual(t, mgl64.Vec3{30, 24, 40}, parts[0].TransformedBoundingBox.Max)

	require.Equal(t, "part-1", parts[1].Name)
	requireVecAlmostEqual(t, mgl64.Vec3{0, 0, -10}, parts[1].TransformedBoundingBox.Min)
	requireVecAlmostEqual(t, mgl64.Vec3{10, 10, 0}, parts[1].TransformedBoundingBox.Max)
	require.NotEqual(t, parts[0].ID, parts[1].ID)
}

func TestSceneFileColorTable(t *testing.T) {
	f, err := DecodeSceneFile(strings.NewReader(testSceneYAML))
	require.NoError(t, err)

	table := f.ColorTable()

	red := table.Lookup(4)
	require.Equal(t, "Bright_Red", red.Name)
	require.Equal(t, color.RGBA{R: 0xff, A: 0xff}, red.Value)
	require.Equal(t, color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}, red.Edge)

	custom := table.Lookup(99)
	require.Equal(t, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, custom.Value)
	require.Equal(t, color.RGBA{R: 0x40, G: 0x50, B: 0x60, A: 0xff}, custom.Edge)

	// untouched defaults survive
	require.Equal(t, "Blue", table.Lookup(1).Name)
	require.Equal(t, "Unknown", table.Lookup(12345).Name)
}

func TestDecodeSceneFileErrors(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{
			name: "malformed",
			yaml: "parts: [",
		},
		{
			name: "zero size",
			yaml: "parts:\n  - size: [0, 1, 1]\n",
		},
		{
			name: "negative size",
			yaml: "parts:\n  - size: [1, 1, -2]\n",
		},
		{
			name: "bad color value",
			yaml: "colors:\n  - code: 1\n    value: nothex\n",
		},
		{
			name: "bad edge color",
			yaml: "colors:\n  - code: 1\n    value: \"#000000\"\n    edge: \"#12\"\n",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeSceneFile(strings.NewReader(tc.yaml))
			require.Error(t, err)
		})
	}
}

func TestDecodeSceneFileEmpty(t *testing.T) {
	f, err := DecodeSceneFile(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, f.Parts())
	require.Equal(t, DefaultColorTable(), f.ColorTable())
}

func TestLoadSceneFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSceneYAML), 0o600))

	f, err := LoadSceneFile(path)
	require.NoError(t, err)
	require.Len(t, f.Entries, 2)

	_, err = LoadSceneFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("parts:\n  - size: [0, 0, 0]\n"), 0o600))
	_, err = LoadSceneFile(bad)
	require.Error(t, err)
}

func TestParseHexColor(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		expected color.RGBA
		err      bool
	}{
		{name: "with hash", value: "#1E5AA8", expected: color.RGBA{R: 0x1e, G: 0x5a, B: 0xa8, A: 0xff}},
		{name: "without hash", value: "00852b", expected: color.RGBA{G: 0x85, B: 0x2b, A: 0xff}},
		{name: "padded", value: "  #FFFFFF ", expected: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{name: "too short", value: "#FFF", err: true},
		{name: "not hex", value: "#GGGGGG", err: true},
		{name: "empty", value: "", err: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ParseHexColor(tc.value)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, c)
		})
	}
}

func TestColorCodeString(t *testing.T) {
	require.Equal(t, "16", MainColor.String())
	require.Equal(t, "24", EdgeColor.String())
}

func TestSceneFileColorTableSkipsInvalidColors(t *testing.T) {
	f := &SceneFile{
		Colors: []ColorEntry{
			{Code: 1, Name: "Broken", Value: "nothex"},
			{Code: 2, Name: "BadEdge", Value: "#00FF00", Edge: "#12"},
			{Code: 3, Name: "Fine", Value: "#0000FF"},
		},
	}

	table := f.ColorTable()
	require.Equal(t, "Blue", table.Lookup(1).Name)
	require.Equal(t, "Green", table.Lookup(2).Name)
	require.Equal(t, color.RGBA{B: 0xff, A: 0xff}, table.Lookup(3).Value)
}
