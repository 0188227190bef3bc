package main

import "github.com/kozaktomas/frame-diff/cmd"

func main() {
	cmd.Execute()
}
