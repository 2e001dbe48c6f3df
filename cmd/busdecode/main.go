package main

import "busdecode/internal/cli"

func main() {
	cli.Execute()
}
