// Package artifact reads the compiled smartcontract produced by hardhat.
//
// The artifact is located at
//
//	<artifacts>/contracts/<ContractName>.sol/<ContractName>.json
//
// and keeps the abi and the creation bytecode of the smartcontract.
package artifact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrNotFound is returned when the artifact file doesn't exist.
// Probably the contracts were not compiled.
var ErrNotFound = errors.New("artifact not found, compile the contracts first")

// Artifact of the compiled smartcontract
type Artifact struct {
	Format       string          `json:"_format"`
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	Abi          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`

	gethAbi abi.ABI
	code    []byte
}

// Path of the smartcontract's artifact in the artifacts directory.
func Path(root string, contractName string) string {
	return filepath.Join(root, "contracts", contractName+".sol", contractName+".json")
}

// Read the artifact file
func Read(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s): %w", path, err)
	}

	artifact, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return artifact, nil
}

// Parse the artifact json.
// The abi must be the list of descriptors, and the bytecode must be a non empty hex.
func Parse(data []byte) (*Artifact, error) {
	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("artifact is not a valid json: %w", err)
	}

	if len(artifact.ContractName) == 0 {
		return nil, fmt.Errorf("missing 'contractName' parameter")
	}

	trimmed := bytes.TrimSpace(artifact.Abi)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("'abi' parameter should be a list")
	}
	if err := json.Unmarshal(artifact.Abi, &artifact.gethAbi); err != nil {
		return nil, fmt.Errorf("failed to decompose abi to geth abi: %w", err)
	}

	if len(artifact.Bytecode) == 0 {
		return nil, fmt.Errorf("missing 'bytecode' parameter")
	}
	code, err := hexutil.Decode(artifact.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("invalid 'bytecode' parameter: %w", err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("empty 'bytecode', %s is abstract or an interface", artifact.ContractName)
	}
	artifact.code = code

	return &artifact, nil
}

// GethAbi returns the parsed abi
func (a *Artifact) GethAbi() abi.ABI {
	return a.gethAbi
}

// Code returns the creation bytecode
func (a *Artifact) Code() []byte {
	return a.code
}

// Deployed smartcontract
type Deployed struct {
	Address common.Address
	Abi     json.RawMessage // copied from the artifact as it is
}

// NewDeployed returns the deployed version of the artifact
func (a *Artifact) NewDeployed(address common.Address) *Deployed {
	return &Deployed{
		Address: address,
		Abi:     a.Abi,
	}
}
