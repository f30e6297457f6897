// Command assetledger manages items and their owners on a key-value ledger.
package main

import "github.com/mesh-intelligence/assetledger/internal/cli"

func main() {
	cli.Execute()
}
