package main

import "github.com/ftl/iqscope/cmd"

func main() {
	cmd.Execute()
}
