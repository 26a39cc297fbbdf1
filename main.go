package main

import (
	"os"

	"github.com/ripenv/ripenv/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
