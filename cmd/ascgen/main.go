package main

import "github.com/OpenTraceLab/ascgen/cmd/ascgen/cmd"

func main() {
	cmd.Execute()
}
