package main

import "github.com/printflow2050/printflow-cli/cmd"

func main() {
	cmd.Execute()
}
