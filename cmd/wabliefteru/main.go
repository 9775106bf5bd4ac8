// Command wabliefteru is a terminal chat client for the Wabliefteru podcast bot.
package main

import "github.com/cinematen/wabliefteru/internal/commands"

func main() {
	commands.Execute()
}
