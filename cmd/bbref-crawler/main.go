package main

import "github.com/pfrederiksen/bbref-crawler/internal/cli"

func main() {
	cli.Execute()
}
