package main

import "github.com/courtflow/progression/cli"

func main() {
	cli.Main()
}
