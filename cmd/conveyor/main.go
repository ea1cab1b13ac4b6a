package main

import (
	conveyorcmd "github.com/conveyorci/conveyor/cmd"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	conveyorcmd.SetVersionInfo(version, commit)
	conveyorcmd.Execute()
}
