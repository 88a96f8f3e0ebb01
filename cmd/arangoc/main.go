package main

import (
	"fmt"
	"os"
)

func main() {
	os.Exit(submain())
}

func submain() int {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}

	return 0
}
