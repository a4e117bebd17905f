// Package qbittorrent provides a client for interacting with the qBittorrent Web API.
//
// This package wraps the autobrr/go-qbittorrent library to provide the
// narrow surface sentinelarr needs: listing torrent snapshots (including
// per-torrent announce URLs in reported order) and applying stop actions.
//
// # Usage
//
//	client, err := qbittorrent.NewClient(url, username, password, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	snapshots, err := client.ListTorrents(ctx)
//	// evaluate...
//	err = client.Apply(ctx, hash, qbittorrent.ActionPause)
package qbittorrent
