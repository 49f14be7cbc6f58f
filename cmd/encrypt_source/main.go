package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"todbc/internal/data"

	"github.com/joho/godotenv"
)

// Reads a connection-string template from stdin and prints the value to
// store in ODBCDIAG_SOURCE_<NAME>.
func main() {
	_ = godotenv.Load()

	key := os.Getenv("ODBCDIAG_KEY")
	if key == "" {
		fmt.Println("ODBCDIAG_KEY is not set. Check .env file or environment.")
		os.Exit(1)
	}

	cryptoSvc, err := data.NewEncryptionService(key)
	if err != nil {
		fmt.Printf("Failed to init crypto service: %v\n", err)
		os.Exit(1)
	}

	tmpl, err := bufio.NewReader(os.Stdin).ReadString('\n')
	tmpl = strings.TrimRight(tmpl, "\r\n")
	if tmpl == "" {
		fmt.Println("No template on stdin.")
		os.Exit(1)
	}

	enc, err := cryptoSvc.Encrypt(tmpl)
	if err != nil {
		fmt.Printf("Failed to encrypt: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(data.EncryptedPrefix + enc)
}
