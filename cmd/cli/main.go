package main

import "github.com/freightguard/carriervet/pkg/cli"

func main() {
	cli.Execute()
}
