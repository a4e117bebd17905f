package qbittorrent

import "errors"

// Common errors returned by the qBittorrent client.
var (
	// ErrInvalidHash is returned when a torrent hash is invalid.
	ErrInvalidHash = errors.New("invalid torrent hash")

	// ErrConnectionFailed is returned when connection to qBittorrent fails.
	ErrConnectionFailed = errors.New("connection to qBittorrent failed")

	// ErrUnknownAction is returned when an action name is not recognized.
	ErrUnknownAction = errors.New("unknown action")
)
