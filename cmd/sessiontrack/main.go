package main

import "github.com/emiliopalmerini/sessiontrack/internal/cli"

func main() {
	cli.Execute()
}
