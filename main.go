package main

import (
	"os"

	"github.com/evanj-au/grepr/cmd"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--mcp" {
		if err := cmd.ServeMCP(); err != nil {
			os.Exit(1)
		}
		return
	}
	cmd.Execute()
}
