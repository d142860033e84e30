package main

import (
	"log"

	"egunkari/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		log.Fatalf("egunkari: %v", err)
	}
}
