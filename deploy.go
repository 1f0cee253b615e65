package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/blocklords/soulbound/blockchain/evm/client"
	"github.com/blocklords/soulbound/blockchain/evm/deployer"
	"github.com/blocklords/soulbound/blockchain/network"
	"github.com/blocklords/soulbound/configuration"
	"github.com/blocklords/soulbound/deployment"
	"github.com/blocklords/soulbound/log"
	"github.com/blocklords/soulbound/security"
	"github.com/spf13/cobra"
)

type deployFlags struct {
	network string
	noSave  bool
}

func newDeployCommand(logger *log.Logger) *cobra.Command {
	flags := deployFlags{}

	cmd := &cobra.Command{
		Use:   "deploy [.env paths...]",
		Short: "Deploy the certificate smartcontract and save it into the frontend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return deploy(ctx, logger, flags, args)
		},
	}
	cmd.Flags().StringVar(&flags.network, "network", network.Localhost, "the network to deploy to: localhost or sepolia")
	cmd.Flags().BoolVar(&flags.noSave, "no-save", false, "don't write the address and the abi into the frontend")

	return cmd
}

// newDeployer signs with the private key.
// Without the key, the localhost deployer uses the first account unlocked on the node.
func newDeployer(ctx context.Context, networkId string, privateKey string, c *client.Client, logger *log.Logger) (deployment.Deployer, error) {
	if len(privateKey) == 0 && networkId == network.Localhost {
		accounts, err := c.Accounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("client.Accounts: %w", err)
		}
		if len(accounts) == 0 {
			return nil, errors.New("missing 'PRIVATE_KEY' and the node has no unlocked accounts")
		}
		logger.Info("deploying from the node's account", "address", accounts[0].Hex())
		return deployer.NewUnlocked(c.Backend(), c, accounts[0], logger), nil
	}

	chainId, err := c.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("client.ChainID: %w", err)
	}
	logger.Info("connected to the network", "chain id", chainId.String())

	opts, err := deployer.NewTransactor(privateKey, chainId)
	if err != nil {
		return nil, fmt.Errorf("deployer.NewTransactor: %w", err)
	}
	logger.Info("deploying from the account", "address", opts.From.Hex())

	return deployer.New(c.Backend(), opts, logger), nil
}

func deploy(ctx context.Context, parent *log.Logger, flags deployFlags, envPaths []string) error {
	logger := parent.Child("deploy", "network", flags.network)

	config, err := configuration.New(logger, envPaths)
	if err != nil {
		return fmt.Errorf("configuration.New: %w", err)
	}
	params := deployment.NewParams(config, !flags.noSave)

	n, err := network.NewNetworks(config).Get(flags.network)
	if err != nil {
		return fmt.Errorf("networks.Get: %w", err)
	}

	secrets, err := security.New(ctx, config, logger)
	if err != nil {
		return fmt.Errorf("security.New: %w", err)
	}
	privateKey, err := secrets.Resolve(ctx, "PRIVATE_KEY")
	if err != nil {
		return fmt.Errorf("secrets.Resolve: %w", err)
	}

	c, err := client.New(ctx, n)
	if err != nil {
		return fmt.Errorf("client.New: %w", err)
	}
	defer c.Close()

	d, err := newDeployer(ctx, n.Id, privateKey, c, logger)
	if err != nil {
		return err
	}

	_, err = deployment.Run(ctx, params, d, logger)
	if err != nil {
		return fmt.Errorf("deployment.Run: %w", err)
	}
	return nil
}
