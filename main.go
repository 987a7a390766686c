package main

import "github.com/lukman83/boostgg-scrap/cmd"

func main() {
	cmd.Execute()
}
