// Soulbound is the backend of the soulbound certificates.
//
// It has two commands:
//   - serve runs the pinning gateway. The gateway stores the certificate
//     metadata on the content-addressed storage network and returns its ipfs uri.
//   - deploy deploys the certificate smartcontract and saves its address
//     and abi into the frontend sources.
//
// The command line arguments are the paths to the .env files.
// The secrets are read from the environment or from the vault.
package main

import (
	"fmt"
	"os"

	"github.com/blocklords/soulbound/log"
	"github.com/spf13/cobra"
)

func newRootCommand(logger *log.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "soulbound",
		Short:         "Soulbound certificates backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(logger), newDeployCommand(logger))

	return root
}

func main() {
	logger, err := log.New("main", log.WithTimestamp)
	if err != nil {
		fmt.Fprintln(os.Stderr, "log.New(`main`):", err)
		os.Exit(1)
	}

	if err := newRootCommand(logger).Execute(); err != nil {
		logger.Error("soulbound", "error", err)
		os.Exit(1)
	}
}
