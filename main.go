package main

import "github.com/theirongolddev/smartbudget/cmd"

func main() {
	cmd.Execute()
}
