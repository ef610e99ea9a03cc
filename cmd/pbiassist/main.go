// Command pbiassist inspects and analyzes Power BI model exports (.vpax).
package main

import (
	"os"

	"github.com/leapstack-labs/pbiassist/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
