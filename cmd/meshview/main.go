package main

import (
	"os"

	"github.com/philipparndt/meshview/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
