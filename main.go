package main

import (
	"os"

	"absolute-cinema-cli/cmd"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(cmd.Execute(version, commit))
}
