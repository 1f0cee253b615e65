// Package publisher writes the deployed smartcontract into the frontend sources:
//
//	<dir>/contract-address.json    {"address": "0x..."}
//	<dir>/abi/<ContractName>.json  the abi of the smartcontract
//
// Both files are staged in temporary files first. The previous files are
// replaced only when both of them are staged.
package publisher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blocklords/soulbound/blockchain/evm/artifact"
)

const (
	AddressFile = "contract-address.json"
	AbiDir      = "abi"
	indent      = "  "
)

// Destination of the deployed smartcontract
type Destination struct {
	Dir          string // frontend source directory
	ContractName string
}

// AddressPath is the path of the address file
func (d Destination) AddressPath() string {
	return filepath.Join(d.Dir, AddressFile)
}

// AbiPath is the path of the abi file
func (d Destination) AbiPath() string {
	return filepath.Join(d.Dir, AbiDir, d.ContractName+".json")
}

type address struct {
	Address string `json:"address"`
}

// staged file is written but not renamed yet
type staged struct {
	tmp  string
	path string
}

// stage writes the content into the temporary file in the directory of the path
func stage(path string, content []byte) (staged, error) {
	file, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return staged{}, fmt.Errorf("os.CreateTemp(%s): %w", path, err)
	}
	s := staged{tmp: file.Name(), path: path}

	_, err = file.Write(content)
	if err == nil {
		err = file.Sync()
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(s.tmp, 0644)
	}
	if err != nil {
		_ = os.Remove(s.tmp)
		return staged{}, fmt.Errorf("write %s: %w", s.tmp, err)
	}

	return s, nil
}

// Encode the address and the abi files
func Encode(deployed *artifact.Deployed) ([]byte, []byte, error) {
	addressContent, err := json.MarshalIndent(address{Address: deployed.Address.Hex()}, "", indent)
	if err != nil {
		return nil, nil, fmt.Errorf("json.MarshalIndent(address): %w", err)
	}

	var abiContent bytes.Buffer
	if err := json.Indent(&abiContent, deployed.Abi, "", indent); err != nil {
		return nil, nil, fmt.Errorf("json.Indent(abi): %w", err)
	}

	return addressContent, abiContent.Bytes(), nil
}

// Publish the deployed smartcontract to the destination.
// The previous files are overwritten.
//
// On failure, the temporary files are removed, the previous files are kept.
func Publish(destination Destination, deployed *artifact.Deployed) (err error) {
	if len(destination.ContractName) == 0 {
		return fmt.Errorf("missing contract name")
	}

	addressContent, abiContent, err := Encode(deployed)
	if err != nil {
		return err
	}

	abiDir := filepath.Dir(destination.AbiPath())
	if err := os.MkdirAll(abiDir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s): %w", abiDir, err)
	}

	files := make([]staged, 0, 2)
	defer func() {
		if err == nil {
			return
		}
		for _, file := range files {
			_ = os.Remove(file.tmp)
		}
	}()

	addressFile, err := stage(destination.AddressPath(), addressContent)
	if err != nil {
		return err
	}
	files = append(files, addressFile)

	abiFile, err := stage(destination.AbiPath(), abiContent)
	if err != nil {
		return err
	}
	files = append(files, abiFile)

	for _, file := range files {
		if err = os.Rename(file.tmp, file.path); err != nil {
			return fmt.Errorf("os.Rename(%s): %w", file.path, err)
		}
	}

	return nil
}
