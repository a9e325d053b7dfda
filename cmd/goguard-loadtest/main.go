// Command goguard-loadtest drives concurrent login, require, and logout
// traffic through an Authenticator and reports latency percentiles.
//
//	go run ./cmd/goguard-loadtest --backend redis --users 10000 --ops 200000
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
