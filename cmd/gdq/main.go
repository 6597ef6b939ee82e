// Package main implements the go-dataflow-query CLI (gdq).
// It provides commands for building flow graphs and running dataflow
// analyses over Python and PHP source files.
package main

import (
	"os"

	"github.com/l3aro/go-dataflow-query/cmd/gdq/commands"
)

var version = "dev"

func main() {
	commands.RootCmd.Version = version
	commands.RootCmd.SetVersionTemplate(`gdq version {{.Version}}
`)

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
