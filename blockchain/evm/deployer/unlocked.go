package deployer

import (
	"context"
	"fmt"

	"github.com/blocklords/soulbound/blockchain/evm/artifact"
	"github.com/blocklords/soulbound/log"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Node signs and sends the transactions of its unlocked accounts.
// Implemented by the client of the development node.
type Node interface {
	SendCreation(ctx context.Context, from common.Address, data []byte) (common.Hash, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
}

// Unlocked deploys the smartcontracts from the account unlocked on the node.
// Used on the local development node when no private key is given.
type Unlocked struct {
	backend bind.DeployBackend
	node    Node
	from    common.Address
	logger  *log.Logger
}

// NewUnlocked deployer sending the transactions from the node's account
func NewUnlocked(backend bind.DeployBackend, node Node, from common.Address, parent *log.Logger) *Unlocked {
	return &Unlocked{
		backend: backend,
		node:    node,
		from:    from,
		logger:  parent.Child("deployer", "from", from.Hex(), "signer", "node"),
	}
}

// Deploy the smartcontract without the constructor arguments.
// Blocks until the transaction is mined or the context is cancelled.
func (d *Unlocked) Deploy(ctx context.Context, compiled *artifact.Artifact) (*Deployment, error) {
	input, err := compiled.GethAbi().Pack("")
	if err != nil {
		return nil, fmt.Errorf("constructor arguments of %s: %w", compiled.ContractName, err)
	}
	data := append(append([]byte{}, compiled.Code()...), input...)

	hash, err := d.node.SendCreation(ctx, d.from, data)
	if err != nil {
		return nil, fmt.Errorf("node.SendCreation(%s): %w", compiled.ContractName, err)
	}
	d.logger.Info("deployment transaction sent", "contract", compiled.ContractName, "tx", hash.Hex())

	tx, _, err := d.node.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("node.TransactionByHash(%s): %w", hash.Hex(), err)
	}

	deployed, err := bind.WaitDeployed(ctx, d.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("bind.WaitDeployed(%s): %w", hash.Hex(), err)
	}
	d.logger.Info("deployed", "contract", compiled.ContractName, "address", deployed.Hex())

	return &Deployment{
		Address:     deployed,
		Transaction: tx,
	}, nil
}
