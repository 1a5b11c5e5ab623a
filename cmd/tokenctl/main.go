// Package main provides tokenctl, which logs in to a thirdweb email wallet
// and optionally deploys an ERC-20 token from it.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
