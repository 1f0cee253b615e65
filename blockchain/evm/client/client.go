// The EVM blockchain client.
// It's used by the deployer to send the transactions to the network.
package client

import (
	"context"
	"fmt"
	"math/big"

	"github.com/blocklords/soulbound/blockchain/network"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client is connected to the first provider of the network
type Client struct {
	rpc     *rpc.Client
	client  *ethclient.Client
	Network *network.Network
}

// New network client connected to the blockchain.
func New(ctx context.Context, network *network.Network) (*Client, error) {
	providerUrl, err := network.GetFirstProviderUrl()
	if err != nil {
		return nil, fmt.Errorf("network.GetFirstProviderUrl: %w", err)
	}

	rpcClient, err := rpc.DialContext(ctx, providerUrl)
	if err != nil {
		return nil, fmt.Errorf(`failed to connect to blockchain. please try again later: %w`, err)
	}

	return &Client{
		rpc:     rpcClient,
		client:  ethclient.NewClient(rpcClient),
		Network: network,
	}, nil
}

// Backend returns the geth client that implements the contract binding backends
func (c *Client) Backend() *ethclient.Client {
	return c.client
}

// ChainID returns the chain id of the network, used to sign the transactions
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	chainId, err := c.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("provider chain id: %w", err)
	}
	return chainId, nil
}

// Accounts returns the accounts unlocked on the node.
// The development nodes, such as hardhat node or anvil, unlock the funded accounts.
func (c *Client) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := c.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("eth_accounts: %w", err)
	}
	return accounts, nil
}

// SendCreation sends the contract creation transaction.
// The node signs it with the unlocked account, and sets the nonce, the gas and the fees.
func (c *Client) SendCreation(ctx context.Context, from common.Address, data []byte) (common.Hash, error) {
	args := map[string]interface{}{
		"from": from,
		"data": hexutil.Bytes(data),
	}

	var hash common.Hash
	if err := c.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, fmt.Errorf("eth_sendTransaction: %w", err)
	}
	return hash, nil
}

// TransactionByHash returns the transaction and whether it's still pending
func (c *Client) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	return c.client.TransactionByHash(ctx, hash)
}

// Close the connection
func (c *Client) Close() {
	c.client.Close()
}
