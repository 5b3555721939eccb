package main

import (
	"os"

	"smalihook/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
