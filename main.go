package main

import (
	"os"

	"github.com/hyperterse/covidcol/core/cli"
	"github.com/hyperterse/covidcol/core/cli/cmd"
)

// Version is stamped by the release build: -ldflags "-X main.Version=v1.0.0".
var Version = "dev"

func main() {
	cmd.SetVersion(Version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
