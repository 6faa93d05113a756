package config

import "sort"

// Presets are the named variants: classic, pcg and tracked differ in sampler
// and styling, orbit flips the pairwise rule to attract.
var Presets = map[string]*Config{
	"classic": {
		Variant: "classic", Width: 768, Height: 768, Count: 32, Increment: 0.005,
		Mode: "repel", Stepper: "accumulate", FPS: 60, ResetSeconds: 8, RNG: "std",
		Theme: "minimal",
		Style: StyleConfig{Trail: 4, Thickness: 1, Tracked: -1},
	},
	"pcg": {
		Variant: "pcg", Width: 768, Height: 768, Count: 32, Increment: 0.005,
		Mode: "repel", Stepper: "accumulate", FPS: 60, ResetSeconds: 8, RNG: "pcg",
		ShowFPS: true, Theme: "cyberpunk",
		Style: StyleConfig{Trail: 4, Thickness: 1, Tracked: -1},
	},
	"tracked": {
		Variant: "tracked", Width: 768, Height: 768, Count: 32, Increment: 0.0065,
		Mode: "repel", Stepper: "accumulate", FPS: 60, ResetSeconds: 10, RNG: "pcg",
		ShowFPS: true, Theme: "ocean",
		Style: StyleConfig{Trail: 8, Thickness: 3, Tracked: 0},
	},
	"orbit": {
		Variant: "orbit", Width: 768, Height: 768, Count: 32, Increment: 0.005,
		Mode: "attract", Stepper: "accumulate", FPS: 60, ResetSeconds: 8, RNG: "std",
		Theme: "retro",
		Style: StyleConfig{Trail: 4, Thickness: 1, Tracked: -1},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for k := range Presets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
