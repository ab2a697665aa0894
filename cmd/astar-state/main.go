package main

import cmd "github.com/rohmanhakim/astar-state/internal/cli"

func main() {
	cmd.Execute()
}
