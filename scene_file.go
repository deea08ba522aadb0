package partindex

import (
	"io"
	"os"
	"strconv"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// SceneFile is the YAML description of a scene made of boxes.
type SceneFile struct {
	Colors  []ColorEntry `yaml:"colors"`
	Entries []PartEntry  `yaml:"parts"`
}

type ColorEntry struct {
	Code  ColorCode `yaml:"code"`
	Name  string    `yaml:"name"`
	Value string    `yaml:"value"`
	Edge  string    `yaml:"edge"`
}

type PartEntry struct {
	Name     string     `yaml:"name"`
	Color    ColorCode  `yaml:"color"`
	Size     [3]float64 `yaml:"size"`
	Position [3]float64 `yaml:"position"`
	Rotation [3]float64 `yaml:"rotation"`
}

func DecodeSceneFile(r io.Reader) (*SceneFile, error) {
	var f SceneFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, errors.New("decoding scene file failed").Wrap(err)
	}

	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func LoadSceneFile(path string) (*SceneFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.New("opening scene file failed").
			WithTag("path", path).
			Wrap(err)
	}
	defer file.Close()

	f, err := DecodeSceneFile(file)
	if err != nil {
		return nil, errors.New("loading scene file failed").
			WithTag("path", path).
			Wrap(err)
	}
	return f, nil
}

func (f *SceneFile) validate() error {
	for i, p := range f.Entries {
		for axis, v := range p.Size {
			if v <= 0 {
				return errors.New("part size must be positive").
					WithTag("part", i).
					WithTag("name", p.Name).
					WithTag("axis", axis)
			}
		}
	}

	for _, c := range f.Colors {
		if _, err := ParseHexColor(c.Value); err != nil {
			return errors.New("invalid color value").
				WithTag("code", c.Code).
				Wrap(err)
		}
		if c.Edge == "" {
			continue
		}
		if _, err := ParseHexColor(c.Edge); err != nil {
			return errors.New("invalid edge color").
				WithTag("code", c.Code).
				Wrap(err)
		}
	}
	return nil
}

// Parts builds a box part for every entry. Unnamed parts are called
// "part-<n>".
func (f *SceneFile) Parts() []*Part {
	parts := make([]*Part, 0, len(f.Entries))
	for i, e := range f.Entries {
		name := e.Name
		if name == "" {
			name = "part-" + strconv.Itoa(i)
		}

		m := NewPlacementMatrix(mgl64.Vec3(e.Position), mgl64.Vec3(e.Rotation))
		parts = append(parts, NewBoxPart(name, e.Color, mgl64.Vec3(e.Size), m))
	}
	return parts
}

// ColorTable is the default table overridden by the file's colors.
// Entries with an invalid value or edge are skipped.
func (f *SceneFile) ColorTable() ColorTable {
	t := DefaultColorTable()
	for _, c := range f.Colors {
		value, err := ParseHexColor(c.Value)
		if err != nil {
			continue
		}

		edge := rgb(0x333333)
		if c.Edge != "" {
			if edge, err = ParseHexColor(c.Edge); err != nil {
				continue
			}
		}
		t[c.Code] = Color{Code: c.Code, Name: c.Name, Value: value, Edge: edge}
	}
	return t
}
