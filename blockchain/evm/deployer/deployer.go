// Package deployer sends the smartcontract creation transaction
// and waits until the smartcontract is deployed.
package deployer

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/blocklords/soulbound/blockchain/evm/artifact"
	"github.com/blocklords/soulbound/log"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Backend is the blockchain node: sends the transactions, and returns the receipts.
// Implemented by ethclient.Client and the simulated backend.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Deployment is the deployed smartcontract along with its creation transaction
type Deployment struct {
	Address     common.Address
	Transaction *types.Transaction
}

// Deployer deploys the smartcontracts from the account of the transactor
type Deployer struct {
	backend Backend
	opts    *bind.TransactOpts
	logger  *log.Logger
}

// PrivateKey parses the hex encoded private key. The 0x prefix is optional.
func PrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"), "0X")
	if len(hexKey) == 0 {
		return nil, fmt.Errorf("missing 'PRIVATE_KEY'")
	}

	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("crypto.HexToECDSA: %w", err)
	}
	return key, nil
}

// NewTransactor creates the signer of the transactions on the chain
func NewTransactor(hexKey string, chainId *big.Int) (*bind.TransactOpts, error) {
	key, err := PrivateKey(hexKey)
	if err != nil {
		return nil, err
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, chainId)
	if err != nil {
		return nil, fmt.Errorf("bind.NewKeyedTransactorWithChainID: %w", err)
	}
	return opts, nil
}

// New deployer
func New(backend Backend, opts *bind.TransactOpts, parent *log.Logger) *Deployer {
	return &Deployer{
		backend: backend,
		opts:    opts,
		logger:  parent.Child("deployer", "from", opts.From.Hex()),
	}
}

// Deploy the smartcontract without the constructor arguments.
// Blocks until the transaction is mined or the context is cancelled.
func (d *Deployer) Deploy(ctx context.Context, compiled *artifact.Artifact) (*Deployment, error) {
	opts := *d.opts
	opts.Context = ctx

	address, tx, _, err := bind.DeployContract(&opts, compiled.GethAbi(), compiled.Code(), d.backend)
	if err != nil {
		return nil, fmt.Errorf("bind.DeployContract(%s): %w", compiled.ContractName, err)
	}
	d.logger.Info("deployment transaction sent", "contract", compiled.ContractName, "tx", tx.Hash().Hex(), "address", address.Hex())

	deployed, err := bind.WaitDeployed(ctx, d.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("bind.WaitDeployed(%s): %w", tx.Hash().Hex(), err)
	}
	d.logger.Info("deployed", "contract", compiled.ContractName, "address", deployed.Hex())

	return &Deployment{
		Address:     deployed,
		Transaction: tx,
	}, nil
}
