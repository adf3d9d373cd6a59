package main

import "pinboard-backend/cmd"

func main() {
	cmd.Run()
}
