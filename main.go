package main

import "github.com/wagiedev/cefi-mcp/cmd"

func main() {
	cmd.Execute()
}
