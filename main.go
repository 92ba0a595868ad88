package main

import (
	"os"

	"github.com/kadraa-png/yt-fetch/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
