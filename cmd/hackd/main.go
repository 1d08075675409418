package main

import "github.com/hackos/hackd/cmd/hackd/cmd"

func main() {
	cmd.Execute()
}
