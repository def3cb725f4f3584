package main

import (
	"os"

	"github.com/voxlink-io/voxlink/cmd/voxlink-gateway/app"
)

func main() {
	if err := app.NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
