package main

import "github.com/jmehdipour/iovox-sms/cmd"

func main() {
	cmd.Execute()
}
