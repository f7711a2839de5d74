package main

import (
	"os"

	"infinitescroll/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
