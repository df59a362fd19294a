package main

import "github.com/BerylCAtieno/dataset-summarizer-api/internal/cli"

func main() {
	cli.Execute()
}
