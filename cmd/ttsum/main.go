package main

import (
	"context"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/cli"
)

func main() {
	ctx := context.Background()
	cli.Main(ctx)
}
