package main

import (
	"os"

	"github.com/altuslabsxyz/near-client/internal/output"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		output.DefaultLogger.Error("%v", err)
		os.Exit(1)
	}
}
