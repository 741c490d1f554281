package main

import "github.com/casware/gocas/cmd"

func main() {
	cmd.Execute()
}
