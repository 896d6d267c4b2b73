package main

import (
	"os"

	"github.com/voltlab/gridopt/internal/cli"
	"github.com/voltlab/gridopt/pkg/buildinfo"

	_ "github.com/voltlab/gridopt/pkg/solver/backends"
)

func main() {
	cli.SetVersion(buildinfo.Version, buildinfo.Commit, buildinfo.Date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
