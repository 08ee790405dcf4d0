package main

import (
	"github.com/frodon-community/peergames/internal/cli"
)

func main() {
	cli.Execute()
}
