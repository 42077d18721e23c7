package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	ctx := context.Background()

	if err := fang.Execute(ctx, NewRootCmd(version)); err != nil {
		os.Exit(1)
	}
}
