package game

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type Preset struct {
	Width, Height int
	NumHazards    int
}

var Presets = map[string]Preset{
	"beginner":     {Width: 9, Height: 9, NumHazards: 10},
	"intermediate": {Width: 16, Height: 16, NumHazards: 40},
	"expert":       {Width: 30, Height: 16, NumHazards: 99},
}

func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (config *GameConfig) ApplyPreset(name string) error {
	preset, ok := Presets[name]
	if !ok {
		return errors.Wrapf(ErrInvalidConfiguration, "unknown preset %q", name)
	}
	config.Width, config.Height, config.NumHazards = preset.Width, preset.Height, preset.NumHazards
	return nil
}

// ReadConfig overlays the YAML file at path onto config. Keys missing from
// the file keep their current values.
func ReadConfig(path string, config *GameConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config")
	}
	if err := yaml.UnmarshalStrict(b, config); err != nil {
		return errors.Wrapf(err, "parse config %s", path)
	}
	return nil
}

func ReadSnapshot(path string) (*RoundSnapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read snapshot")
	}
	return LoadSnapshot(string(b))
}
