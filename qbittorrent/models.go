package qbittorrent

import "time"

// Action is a stop action the client can apply to a torrent.
type Action string

const (
	ActionPause      Action = "pause"
	ActionRemove     Action = "remove"
	ActionRemoveData Action = "remove_data"
)

// TorrentSnapshot contains the per-cycle view of a torrent
type TorrentSnapshot struct {
	Hash        string
	Name        string
	Trackers    []string
	Ratio       float64
	SeedingTime int64
	Uploaded    int64
	UpSpeed     int64
	Tags        []string
	State       string
	Category    string
	AddedOn     time.Time
}

// IsSeeding checks if the torrent is actively seeding
func (t *TorrentSnapshot) IsSeeding() bool {
	return t.State == "uploading" || t.State == "stalledUP" || t.State == "queuedUP" || t.State == "forcedUP"
}

// HasRatio reports whether the client produced a usable ratio. qBittorrent
// returns a negative sentinel when nothing has been downloaded yet.
func (t *TorrentSnapshot) HasRatio() bool {
	return t.Ratio >= 0
}
