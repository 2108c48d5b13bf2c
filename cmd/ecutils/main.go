// Command ecutils exposes the curve arithmetic, key exchange, signature and
// Koblitz encoding packages on the command line.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
