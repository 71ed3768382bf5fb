// Command genhash prints a bcrypt hash for REVIEWER_PASSWORD_HASH.
//
//	go run ./scripts 'the-password'
//	echo -n 'the-password' | go run ./scripts
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	var password string
	if len(os.Args) > 1 {
		password = os.Args[1]
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "usage: genhash <password>")
			os.Exit(2)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	if len(password) < 8 {
		fmt.Fprintln(os.Stderr, "password must be at least 8 characters")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	fmt.Printf("REVIEWER_PASSWORD_HASH=%s\n", hash)
}
