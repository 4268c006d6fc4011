package main

import "github.com/deploymenttheory/go-blockvault/cmd"

func main() {
	cmd.Execute()
}
