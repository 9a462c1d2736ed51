package main

import "github.com/braidcli/braid/internal/cmd"

func main() {
	cmd.Execute()
}
