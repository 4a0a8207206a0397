package main

import "github.com/MartyrMind/email-cli-app/cmd"

func main() {
	cmd.Execute()
}
