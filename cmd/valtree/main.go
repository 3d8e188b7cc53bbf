package main

import (
	"os"

	"github.com/reoring/valtree/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
