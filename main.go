package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/felixbrock/arigato/cmd"
)

func main() {
	cmd.Execute()
}
