// Command backofficectl drives the storefront back-office API from a shell:
// product import and bulk updates, order handling and the dashboard.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
