package main

import "github.com/dialforge/dialtone/cmd/dialtone/cmd"

func main() {
	cmd.Execute()
}
