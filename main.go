package main

import "github.com/samhoang/reins/cmd"

func main() {
	cmd.Execute()
}
