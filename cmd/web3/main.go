package main

import (
	"os"

	"github.com/rovshanmuradov/solana-web3/cmd/web3/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
