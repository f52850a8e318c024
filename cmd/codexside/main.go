// Command codexside is a terminal chat panel for the Codex CLI.
package main

import "github.com/diogo/codexside/internal/commands"

func main() {
	commands.Execute()
}
