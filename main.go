package main

import "github.com/geanix/ehour/cmd"

func main() {
	cmd.Execute()
}
