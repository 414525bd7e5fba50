package main

import "github.com/timvw/dockpane/cmd"

func main() {
	cmd.Execute()
}
