package main

import "weddinghall/internal/cli"

func main() {
	cli.Execute()
}
