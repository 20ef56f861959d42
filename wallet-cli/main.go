package main

import (
	"fmt"
	"os"

	"github.com/automate/wallet-linker/wallet"
	"github.com/automate/wallet-linker/wallet-cli/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", wallet.Message(err))
		os.Exit(1)
	}
}
