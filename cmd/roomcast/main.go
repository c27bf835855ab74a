package main

import "github.com/corvino/roomcast/internal/cli"

func main() {
	cli.Execute()
}
