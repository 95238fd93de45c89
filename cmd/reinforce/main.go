// Command reinforce trains REINFORCE agents on the inverted pendulum
// over several seeds and plots their learning curves.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
