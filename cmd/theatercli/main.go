package main

import (
	"github.com/robotalks/fancylights/pkg/cli/sh"
	"github.com/robotalks/fancylights/pkg/env"

	_ "github.com/robotalks/fancylights/pkg/cli/cmds/all"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
