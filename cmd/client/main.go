package main

import "github.com/timetrac/timetrac/internal/client/cli"

// Version is set via ldflags during build
var Version = "dev"

func main() {
	cli.Execute(Version)
}
