package main

import "github.com/Togather-Foundation/campus-events/cmd/server/cmd"

func main() {
	cmd.Execute()
}
