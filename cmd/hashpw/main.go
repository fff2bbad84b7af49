// Command hashpw reads a password from the terminal without echo and prints
// its bcrypt digest. Useful for seeding accounts by hand.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/mlegrand/gotasks/internal/server/auth"
)

func main() {
	cost := flag.Int("cost", auth.DefaultHashCost, "bcrypt cost factor")
	flag.Parse()

	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		log.Fatalf("error reading password: %v", err)
	}

	digest, err := auth.HashPassword(string(password), *cost)
	if err != nil {
		log.Fatalf("error hashing password: %v", err)
	}

	fmt.Println(digest)
}
