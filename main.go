package main

import "github.com/teammon/teammon/cmd"

func main() {
	cmd.Execute()
}
