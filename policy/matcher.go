package policy

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/s0up4200/sentinelarr/config"
)

// DefaultHost is the tracker label reported when no configured tracker
// matched any of a torrent's announce URLs.
const DefaultHost = "default"

// NormalizeHost extracts the lowercased hostname from an announce URL,
// dropping scheme, path and credentials. qBittorrent reports pseudo
// entries like "** [DHT] **" alongside real trackers; those fail here
// and are skipped by the caller.
func NormalizeHost(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("unparseable tracker url %q: %w", rawURL, err)
	}

	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("tracker url %q has no host", rawURL)
	}

	return strings.ToLower(host), nil
}

// Table holds the configured policies keyed by normalized tracker host.
// Keys containing a port match against host:port, bare keys against the
// hostname alone.
type Table struct {
	defaultEntry config.PolicyEntry
	trackers     map[string]config.PolicyEntry
}

// NewTable builds a Table from the policy section of the config. Tracker
// keys are lowercased once here so lookups stay case-insensitive.
func NewTable(cfg config.PolicyConfig) Table {
	trackers := make(map[string]config.PolicyEntry, len(cfg.Trackers))
	for host, entry := range cfg.Trackers {
		trackers[strings.ToLower(host)] = entry
	}

	return Table{
		defaultEntry: cfg.Default,
		trackers:     trackers,
	}
}

// Resolve walks the torrent's announce URLs in the order the client
// reported them and returns the merged policy of the first URL whose host
// matches a configured key, along with the matched key. Torrent order is
// authoritative; config order never breaks ties. Unparseable URLs are
// skipped. When nothing matches, the default policy is returned under
// DefaultHost.
func (t Table) Resolve(trackerURLs []string) (string, Policy) {
	for _, rawURL := range trackerURLs {
		host, err := NormalizeHost(rawURL)
		if err != nil {
			continue
		}

		// host:port keys take precedence over a bare-host key for the
		// same tracker.
		if u, err := url.Parse(rawURL); err == nil && u.Port() != "" {
			hostPort := host + ":" + u.Port()
			if entry, ok := t.trackers[hostPort]; ok {
				return hostPort, Merge(t.defaultEntry, entry)
			}
		}

		if entry, ok := t.trackers[host]; ok {
			return host, Merge(t.defaultEntry, entry)
		}
	}

	return DefaultHost, Merge(t.defaultEntry, config.PolicyEntry{})
}
