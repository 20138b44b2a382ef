package main

import "votebench/cmd"

func main() {
	cmd.Execute()
}
