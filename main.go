package main

import (
	"github.com/protoweb/protoweb/cmd"
)

func main() {
	cmd.Execute()
}
