// Command hrtctl works with exported hrtrack files offline: it simulates and
// charts them, converts between plain and encrypted files, and moves
// encrypted backups to and from a server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
