// Command yatubectl performs the admin tasks the web UI does not offer:
// creating groups, creating accounts and deleting posts.
//
//	yatubectl group create --title "Cats" --slug cats
//	yatubectl group list
//	yatubectl user create --username alice --password secret-pass
//	yatubectl post delete <post-id>
//
// It reads the same environment and .env file as the server.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
