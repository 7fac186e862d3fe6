package main

import (
	"github.com/RA1LGUN/AudioClipTool/cmd"
)

func main() {
	cmd.Execute()
}
