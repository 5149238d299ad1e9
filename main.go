package main

import (
	"fmt"
	"os"

	"movie-explore/cmd"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	root := cmd.NewRootCommand(cmd.BuildInfo{Version: version, Commit: commit})
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
