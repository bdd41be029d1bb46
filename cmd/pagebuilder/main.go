// Command pagebuilder runs the page builder backend and its offline tools.
//
// Usage:
//
//	pagebuilder serve
//	pagebuilder export --request req.json --out dist
//	pagebuilder inspect snapshot.json
//
// The serve command is configured from the environment (PORT, HOST, LOG_LEVEL,
// PROJECT_STORE, BLOCK_CATALOG_DIR, EXPORT_PAGE_GLOB, ...).
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
