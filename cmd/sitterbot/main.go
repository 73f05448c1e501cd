package main

import "github.com/example/sitterbot/cmd"

func main() {
	cmd.Execute()
}
