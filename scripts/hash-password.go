// Generates an argon2id hash for a password supplied on the command line.
// Useful for seeding accounts directly in the database.
//
// Usage: go run scripts/hash-password.go <password>
package main

import (
	"fmt"
	"os"

	"github.com/medlink/portal-server-go/internal/util"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hash-password <password>")
		os.Exit(1)
	}

	hash, err := util.HashPassword(os.Args[1], util.DefaultArgon2Params())
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
