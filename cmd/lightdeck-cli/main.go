package main

import "lightdeck/cmd/lightdeck-cli/cmd"

func main() {
	cmd.Execute()
}
