package model

// TablePreset is a named table footprint selectable from the CLI.
type TablePreset struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Width       float64 `json:"width"`  // mm
	Height      float64 `json:"height"` // mm
}

// Built-in table presets. Footprints include the bumper/apron overhang, not
// just the playing surface or top.
var TablePresets = []TablePreset{
	{
		Name:        "billiard-9ft",
		Description: "9ft billiard table",
		Width:       2850,
		Height:      1550,
	},
	{
		Name:        "billiard-8ft",
		Description: "8ft billiard table",
		Width:       2540,
		Height:      1420,
	},
	{
		Name:        "snooker-12ft",
		Description: "Full-size snooker table",
		Width:       3660,
		Height:      1980,
	},
	{
		Name:        "banquet-6ft",
		Description: "6ft rectangular banquet table",
		Width:       1830,
		Height:      760,
	},
	{
		Name:        "exam-desk",
		Description: "Single exam desk",
		Width:       1200,
		Height:      600,
	},
}

// GetPreset returns a preset by name, or the first (default) preset if not found.
func GetPreset(name string) TablePreset {
	for _, p := range TablePresets {
		if p.Name == name {
			return p
		}
	}
	return TablePresets[0]
}

// GetPresetNames returns a list of all available preset names.
func GetPresetNames() []string {
	var names []string
	for _, p := range TablePresets {
		names = append(names, p.Name)
	}
	return names
}
