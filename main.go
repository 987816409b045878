package main

import "tabload/cmd"

func main() {
	cmd.Execute()
}
