package main

import "github.com/pfrederiksen/macrocal/internal/cli"

func main() {
	cli.Execute()
}
