package main

import "github.com/portal-labs/project-portal/cmd"

func main() {
	cmd.Execute()
}
