// Package provider keeps the blockchain node urls.
package provider

import (
	"fmt"
	"net/url"
)

// Provider is the rpc node of the network
type Provider struct {
	Url string `json:"url"`
}

// New provider from the url.
// The url should be either http, https, ws or wss.
func New(rawUrl string) (Provider, error) {
	u, err := url.ParseRequestURI(rawUrl)
	if err != nil {
		return Provider{}, fmt.Errorf("invalid '%s' provider url: %w", rawUrl, err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return Provider{}, fmt.Errorf("invalid '%s' provider protocol. Expected either 'http', 'https', 'ws' or 'wss'. But given '%s'", rawUrl, u.Scheme)
	}
	if len(u.Host) == 0 {
		return Provider{}, fmt.Errorf("invalid '%s' provider url: missing host", rawUrl)
	}

	return Provider{Url: rawUrl}, nil
}
