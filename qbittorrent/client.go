package qbittorrent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/autobrr/go-qbittorrent"
	"github.com/rs/zerolog"
)

// Client wraps the qBittorrent API client
type Client struct {
	client *qbittorrent.Client
	logger zerolog.Logger
}

// NewClient creates a new qBittorrent client
func NewClient(url, username, password string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	client := qbittorrent.NewClient(qbittorrent.Config{
		Host:          url,
		Username:      username,
		Password:      password,
		BasicUser:     options.basicUser,
		BasicPass:     options.basicPass,
		TLSSkipVerify: options.tlsSkipVerify,
		Timeout:       int(options.timeout.Seconds()),
	})

	// Test connection by logging in
	if err := client.Login(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

// ListTorrents retrieves a snapshot of every torrent known to the client.
// Tracker URLs are fetched per torrent, in the order qBittorrent reports
// them, but only for torrents that are actively seeding; nothing else
// needs a tracker match.
func (c *Client) ListTorrents(ctx context.Context) ([]TorrentSnapshot, error) {
	torrents, err := c.client.GetTorrentsCtx(ctx, qbittorrent.TorrentFilterOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get torrents: %w", err)
	}

	c.logger.Debug().Msgf("Retrieved %d torrents from qBittorrent", len(torrents))

	var results []TorrentSnapshot
	for _, t := range torrents {
		snapshot := TorrentSnapshot{
			Hash:        t.Hash,
			Name:        t.Name,
			Ratio:       t.Ratio,
			SeedingTime: t.SeedingTime,
			Uploaded:    t.Uploaded,
			UpSpeed:     t.UpSpeed,
			Tags:        splitTags(t.Tags),
			State:       string(t.State),
			Category:    t.Category,
			AddedOn:     time.Unix(t.AddedOn, 0),
		}

		if snapshot.IsSeeding() {
			trackers, err := c.trackerURLs(ctx, t.Hash)
			if err != nil {
				// A torrent we cannot resolve trackers for still gets
				// evaluated against the default policy.
				c.logger.Warn().Err(err).Str("hash", t.Hash).Msg("Failed to get torrent trackers")
			}
			snapshot.Trackers = trackers
		}

		results = append(results, snapshot)
	}

	return results, nil
}

// Apply executes a stop action against a single torrent.
func (c *Client) Apply(ctx context.Context, hash string, action Action) error {
	if hash == "" {
		return ErrInvalidHash
	}

	switch action {
	case ActionPause:
		if err := c.client.PauseCtx(ctx, []string{hash}); err != nil {
			return fmt.Errorf("failed to pause torrent %s: %w", hash, err)
		}
	case ActionRemove:
		if err := c.client.DeleteTorrentsCtx(ctx, []string{hash}, false); err != nil {
			return fmt.Errorf("failed to remove torrent %s: %w", hash, err)
		}
	case ActionRemoveData:
		if err := c.client.DeleteTorrentsCtx(ctx, []string{hash}, true); err != nil {
			return fmt.Errorf("failed to remove torrent %s with data: %w", hash, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	return nil
}

// trackerURLs returns the announce URLs for a torrent in reported order,
// with the DHT/PeX/LSD pseudo entries dropped.
func (c *Client) trackerURLs(ctx context.Context, hash string) ([]string, error) {
	trackers, err := c.client.GetTorrentTrackersCtx(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get trackers: %w", err)
	}

	var urls []string
	for _, tr := range trackers {
		if tr.Status == qbittorrent.TrackerStatusDisabled {
			continue
		}
		if tr.Url == "" {
			continue
		}
		urls = append(urls, tr.Url)
	}

	return urls, nil
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}

	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
