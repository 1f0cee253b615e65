package network

import (
	"fmt"
)

type Networks []*Network

// Whether the network with networkId exists in the networks list
func (networks Networks) Exist(networkId string) bool {
	for _, network := range networks {
		if network.Id == networkId {
			return true
		}
	}

	return false
}

// Returns the Network from the list of networks by its networkId.
// The provider urls are validated for the returned network only.
func (networks Networks) Get(networkId string) (*Network, error) {
	for _, network := range networks {
		if network.Id != networkId {
			continue
		}
		if network.Providers != nil {
			return network, nil
		}

		resolved, err := New(network.Id, network.urls...)
		if err != nil {
			return nil, err
		}
		return resolved, nil
	}

	return nil, fmt.Errorf("network '%s' not found", networkId)
}
