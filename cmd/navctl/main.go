package main

import "github.com/arl/navgo/cmd/navctl/cmd"

func main() {
	cmd.Execute()
}
