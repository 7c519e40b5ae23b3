package main

import "github.com/emrgen/notes/cmd"

func main() {
	cmd.Execute()
}
