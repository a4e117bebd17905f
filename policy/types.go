package policy

import (
	"github.com/s0up4200/sentinelarr/qbittorrent"
)

// Reason identifies which threshold stopped a torrent.
type Reason string

const (
	ReasonRatio       Reason = "ratio"
	ReasonSeedingTime Reason = "seeding_time"
	ReasonIdle        Reason = "idle"
)

// Policy is the fully resolved policy for one torrent. Nil thresholds are
// not checked; a policy with no thresholds never stops anything.
type Policy struct {
	Ratio          *float64
	SeedingMinutes *int
	IdleMinutes    *int
	Action         qbittorrent.Action
	IncludeTags    []string
	ExcludeTags    []string
}

// Decision is the outcome of evaluating one torrent against its policy.
// The zero value is a pass.
type Decision struct {
	Stop   bool
	Reason Reason
	Action qbittorrent.Action
}
