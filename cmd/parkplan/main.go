package main

import "github.com/example/park-planner/cmd"

func main() {
	cmd.Execute()
}
