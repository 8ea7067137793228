// Package main is the entry point for the cidriver CLI.
package main

import (
	"os"
)

func main() {
	os.Exit(newApp(os.Stdout, os.Stderr, os.Getenv).execute(os.Args[1:]))
}
