package policy

import (
	"github.com/s0up4200/sentinelarr/config"
	"github.com/s0up4200/sentinelarr/qbittorrent"
)

// Merge resolves a tracker entry against the default entry with field-level
// inheritance: each field comes from the tracker entry when set there, else
// from the default. The merge happens once at resolution time; the returned
// Policy is never re-merged.
func Merge(def, tracker config.PolicyEntry) Policy {
	p := Policy{
		Ratio:          coalesceFloat(tracker.Ratio, def.Ratio),
		SeedingMinutes: coalesceInt(tracker.SeedingMinutes, def.SeedingMinutes),
		IdleMinutes:    coalesceInt(tracker.IdleMinutes, def.IdleMinutes),
		IncludeTags:    coalesceTags(tracker.IncludeTags, def.IncludeTags),
		ExcludeTags:    coalesceTags(tracker.ExcludeTags, def.ExcludeTags),
		Action:         qbittorrent.ActionPause,
	}

	if action := coalesceString(tracker.Action, def.Action); action != nil {
		p.Action = qbittorrent.Action(*action)
	}

	return p
}

func coalesceFloat(a, b *float64) *float64 {
	if a != nil {
		return a
	}
	return b
}

func coalesceInt(a, b *int) *int {
	if a != nil {
		return a
	}
	return b
}

func coalesceString(a, b *string) *string {
	if a != nil {
		return a
	}
	return b
}

// coalesceTags treats nil as unset and an empty, non-nil slice as an
// explicit "no tags" override.
func coalesceTags(a, b []string) []string {
	if a != nil {
		return a
	}
	return b
}
