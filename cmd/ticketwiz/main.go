package main

import "github.com/jayteemoney/ticket/cmd"

func main() {
	cmd.Execute()
}
