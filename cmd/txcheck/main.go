// Package main provides txcheck, which reports the status of a thirdweb
// transaction and can poll it until it settles.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
