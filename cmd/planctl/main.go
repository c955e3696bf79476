package main

import "github.com/admin-layout-ai/layout-ai-sub000/cmd/planctl/cmd"

func main() {
	cmd.Execute()
}
