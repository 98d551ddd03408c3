package workcal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DefaultJurisdiction is used when neither the caller nor the preset names one
const DefaultJurisdiction = "US"

// Preset is a named, versioned table of defaults for unset constraint fields
type Preset struct {
	Name            string
	Version         int
	ExcludeWeekends bool
	ExcludeHolidays bool
	Jurisdiction    string
}

// String returns "name@version"
func (p Preset) String() string {
	return fmt.Sprintf("%s@%d", p.Name, p.Version)
}

var (
	// PresetStandard schedules regular weekday crews
	PresetStandard = Preset{Name: "standard", Version: 1, ExcludeWeekends: true, ExcludeHolidays: true, Jurisdiction: DefaultJurisdiction}
	// PresetEmergency allows every day
	PresetEmergency = Preset{Name: "emergency", Version: 1, ExcludeWeekends: false, ExcludeHolidays: false, Jurisdiction: DefaultJurisdiction}
	// PresetWeekendCrew works weekends but still observes public holidays
	PresetWeekendCrew = Preset{Name: "weekend-crew", Version: 1, ExcludeWeekends: false, ExcludeHolidays: true, Jurisdiction: DefaultJurisdiction}
)

var presets = map[string][]Preset{
	"standard":     {PresetStandard},
	"emergency":    {PresetEmergency},
	"weekend-crew": {PresetWeekendCrew},
}

// LookupPreset resolves "name" (latest version) or "name@version".
// An empty name resolves to the standard preset.
func LookupPreset(ref string) (Preset, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return PresetStandard, nil
	}

	name, versionStr, hasVersion := strings.Cut(ref, "@")
	versions, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownPreset, ref, strings.Join(PresetNames(), ", "))
	}
	if !hasVersion {
		return versions[len(versions)-1], nil
	}

	version, err := strconv.Atoi(versionStr)
	if err != nil {
		return Preset{}, fmt.Errorf("%w: bad version in %q", ErrUnknownPreset, ref)
	}
	for _, p := range versions {
		if p.Version == version {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, ref)
}

// PresetNames lists registered preset names, sorted
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
