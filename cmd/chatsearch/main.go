package main

import "github.com/diogo/chatsearch/internal/commands"

func main() {
	commands.Execute()
}
