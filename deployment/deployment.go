// Package deployment runs the deploy-and-save procedure:
// reads the compiled smartcontract, deploys it, and publishes the
// address and the abi into the frontend sources.
//
// It's a single run. Any failure aborts the run.
package deployment

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/blocklords/soulbound/blockchain/evm/artifact"
	"github.com/blocklords/soulbound/blockchain/evm/deployer"
	"github.com/blocklords/soulbound/configuration"
	"github.com/blocklords/soulbound/log"
	"github.com/blocklords/soulbound/publisher"
)

// DeploymentConfigurations are the default parameters of the deployment.
// The paths are relative to the directory from where the app is called.
var DeploymentConfigurations = configuration.DefaultConfig{
	Title: "Deployment",
	Parameters: map[string]interface{}{
		"CONTRACT_NAME":     "SoulboundCertificate",
		"ARTIFACTS_PATH":    filepath.Join("contracts", "artifacts"),
		"FRONTEND_SRC_PATH": filepath.Join("frontend", "src"),
		"DEPLOY_TIMEOUT":    0,
		"PRIVATE_KEY":       nil,
	},
}

// Params of the deployment run
type Params struct {
	ContractName  string
	ArtifactsPath string
	Destination   publisher.Destination
	Timeout       time.Duration // 0 waits until the contract is mined
	Save          bool          // publish the address and the abi
}

// NewParams from the configuration
func NewParams(config *configuration.Config, save bool) Params {
	config.SetDefaults(DeploymentConfigurations)

	contractName := config.GetString("CONTRACT_NAME")

	return Params{
		ContractName:  contractName,
		ArtifactsPath: config.GetString("ARTIFACTS_PATH"),
		Destination: publisher.Destination{
			Dir:          config.GetString("FRONTEND_SRC_PATH"),
			ContractName: contractName,
		},
		Timeout: time.Duration(config.GetUint64("DEPLOY_TIMEOUT")) * time.Second,
		Save:    save,
	}
}

// Deployer deploys the compiled smartcontract
type Deployer interface {
	Deploy(ctx context.Context, compiled *artifact.Artifact) (*deployer.Deployment, error)
}

// Run the deployment.
//
// The artifact is read before deploying. If it's missing or malformed,
// then nothing is deployed and nothing is written.
func Run(ctx context.Context, params Params, d Deployer, parent *log.Logger) (*artifact.Deployed, error) {
	logger := parent.Child("deployment", "contract", params.ContractName)

	artifactPath := artifact.Path(params.ArtifactsPath, params.ContractName)
	compiled, err := artifact.Read(artifactPath)
	if err != nil {
		return nil, fmt.Errorf("artifact.Read: %w", err)
	}
	logger.Info("artifact loaded", "path", artifactPath)

	if params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}

	deployment, err := d.Deploy(ctx, compiled)
	if err != nil {
		return nil, fmt.Errorf("deploy: %w", err)
	}
	logger.Info(params.ContractName+" deployed", "address", deployment.Address.Hex())

	deployed := compiled.NewDeployed(deployment.Address)
	if !params.Save {
		return deployed, nil
	}

	if err := publisher.Publish(params.Destination, deployed); err != nil {
		return nil, fmt.Errorf("publisher.Publish: %w", err)
	}
	logger.Info("Contract address saved", "path", params.Destination.AddressPath())
	logger.Info("ABI saved", "path", params.Destination.AbiPath())

	return deployed, nil
}
