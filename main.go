package main

import "github.com/cfdmesh/structmesh/cmd"

func main() {
	cmd.Execute()
}
