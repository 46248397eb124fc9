package main

import "github.com/ekinay/dropin-schedules/internal/cli"

func main() {
	cli.Execute()
}
