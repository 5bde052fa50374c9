package main

import "github.com/seanjh/cbind/cmd"

func main() {
	cmd.Execute()
}
