package main

import "github.com/L3GJ0N/audio-snippet-automation/cmd"

func main() {
	cmd.Execute()
}
