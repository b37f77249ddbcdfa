package main

import "github.com/virtual8/chip8vm/cmd"

func main() {
	cmd.Execute()
}
