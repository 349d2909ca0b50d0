package main

import "github.com/Ktl-XV/poap-webapp/cmd"

func main() {
	cmd.Execute()
}
