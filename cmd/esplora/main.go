// Command esplora queries the Esplora REST API from the command line.
//
// Configuration is read from the environment (see package config). With ESPLORA_CLIENT_ID and
// ESPLORA_CLIENT_SECRET set, requests are authorized with the client credentials flow; otherwise
// the public API is used. Results are printed as indented JSON.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
