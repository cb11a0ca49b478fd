package main

import "github.com/theirongolddev/budgetplan/cmd"

func main() {
	cmd.Execute()
}
