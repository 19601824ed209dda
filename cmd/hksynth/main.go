package main

import "github.com/hksynth/hksynth-cli/internal/cli"

func main() {
	cli.Execute()
}
