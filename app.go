package main

import "github.com/masmgr/vss2git-go/cmd"

func main() {
	cmd.Run()
}
