package main

import "github.com/shaharia-lab/filenotify/cmd"

func main() {
	cmd.Execute()
}
