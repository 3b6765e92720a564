// Command dailybit is a retrieval-augmented study assistant for data
// structures, algorithms and coding problems.
package main

import (
	"os"

	"github.com/custodia-labs/dailybit/internal/adapters/driving/cli"
	"github.com/custodia-labs/dailybit/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	err := cli.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
