package main

import "github.com/monako97/raw-import/cmd"

var version = "v0.1.0"

func main() {
	cmd.Execute(version)
}
