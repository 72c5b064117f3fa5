package main

import "github.com/studydeck/deckapi/cmd"

func main() {
	cmd.Execute()
}
