package main

import "github.com/user/servaudit/cmd"

func main() {
	cmd.Execute()
}
