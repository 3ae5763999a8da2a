// Command nrfsniff reads timestamped packets from a sniffer dongle, or runs
// the sniffer core against simulated hardware.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
