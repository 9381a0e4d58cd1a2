package main

import "github.com/weni-ai/conversation-analyzer/cmd"

func main() {
	cmd.Execute()
}
