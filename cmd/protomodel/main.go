package main

import (
	"runtime/debug"

	"github.com/pentops/protomodel/internal/cli"
)

var Version = ""

func init() {
	if Version == "" {
		buildInfo, ok := debug.ReadBuildInfo()
		if !ok {
			Version = "local"
		} else {
			Version = buildInfo.Main.Version
		}
	}
}

func main() {
	cli.Version = Version
	cmdGroup := cli.CommandSet()
	cmdGroup.RunMain("protomodel", Version)
}
