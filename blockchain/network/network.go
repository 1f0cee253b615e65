// The network package is used to get the blockchain network information.
//
// The networks are the ones that the contracts are deployed to:
// the local development node, and the sepolia testnet.
package network

import (
	"fmt"

	"github.com/blocklords/soulbound/blockchain/network/provider"
)

const (
	Localhost = "localhost" // local development node, such as hardhat node or anvil
	Sepolia   = "sepolia"   // ethereum testnet
)

type Network struct {
	Id        string              `json:"id"`
	Providers []provider.Provider `json:"providers"`

	urls []string // not validated yet
}

// Returns the provider url
func (n *Network) GetFirstProviderUrl() (string, error) {
	if len(n.Providers) == 0 {
		return "", fmt.Errorf("network %s has no providers", n.Id)
	}
	return n.Providers[0].Url, nil
}
