// Package main provides the entry point for the rxrename CLI tool.
package main

import (
	"rxrename/cmd"
)

func main() {
	cmd.Execute()
}
