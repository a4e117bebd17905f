package policy

import (
	"strings"

	"github.com/s0up4200/sentinelarr/qbittorrent"
)

// Evaluate decides whether a torrent should be stopped under its resolved
// policy. Thresholds are checked in fixed priority order: ratio, then
// seeding time, then idle. The first threshold that fires determines the
// reported reason even when several are exceeded.
func Evaluate(t qbittorrent.TorrentSnapshot, p Policy, idleMinutes int) Decision {
	if !t.IsSeeding() {
		return Decision{}
	}

	// The exclude gate wins over inclusion.
	if intersects(t.Tags, p.ExcludeTags) {
		return Decision{}
	}
	if len(p.IncludeTags) > 0 && !intersects(t.Tags, p.IncludeTags) {
		return Decision{}
	}

	if p.Ratio != nil && t.HasRatio() && t.Ratio >= *p.Ratio {
		return Decision{Stop: true, Reason: ReasonRatio, Action: p.Action}
	}

	if p.SeedingMinutes != nil && t.SeedingTime/60 >= int64(*p.SeedingMinutes) {
		return Decision{Stop: true, Reason: ReasonSeedingTime, Action: p.Action}
	}

	if p.IdleMinutes != nil && idleMinutes >= *p.IdleMinutes {
		return Decision{Stop: true, Reason: ReasonIdle, Action: p.Action}
	}

	return Decision{}
}

func intersects(tags, against []string) bool {
	for _, tag := range tags {
		for _, other := range against {
			if strings.EqualFold(tag, other) {
				return true
			}
		}
	}
	return false
}
