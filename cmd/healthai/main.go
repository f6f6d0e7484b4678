// CLI entry point for the HealthAI dashboard.
package main

import (
	"os"

	"github.com/onconet/healthai/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

//Personal.AI order the ending
