package network

import (
	"fmt"

	"github.com/blocklords/soulbound/blockchain/network/provider"
	"github.com/blocklords/soulbound/configuration"
)

// NetworkConfigurations are the rpc urls of the networks.
// The sepolia url is required only when deploying to sepolia.
var NetworkConfigurations = configuration.DefaultConfig{
	Title: "Network",
	Parameters: map[string]interface{}{
		"LOCALHOST_RPC_URL": "http://127.0.0.1:8545",
		"SEPOLIA_RPC_URL":   nil,
	},
}

// New Network with the provider urls.
// The empty urls are skipped.
func New(id string, urls ...string) (*Network, error) {
	providers := make([]provider.Provider, 0, len(urls))
	for _, url := range urls {
		if len(url) == 0 {
			continue
		}
		p, err := provider.New(url)
		if err != nil {
			return nil, fmt.Errorf("network %s provider.New: %w", id, err)
		}
		providers = append(providers, p)
	}

	return &Network{
		Id:        id,
		Providers: providers,
	}, nil
}

// NewNetworks from the configuration.
// The urls are validated by Networks.Get, so a broken url of one network
// doesn't block the others.
func NewNetworks(config *configuration.Config) Networks {
	config.SetDefaults(NetworkConfigurations)

	return Networks{
		{Id: Localhost, urls: []string{config.GetString("LOCALHOST_RPC_URL")}},
		{Id: Sepolia, urls: []string{config.GetString("SEPOLIA_RPC_URL")}},
	}
}
