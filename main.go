package main

import "github.com/deploymenttheory/go-shelllink/cmd"

func main() {
	cmd.Execute()
}
