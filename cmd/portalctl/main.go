package main

import (
	"os"
)

func main() {
	if err := newRootCmd(openConfigured).Execute(); err != nil {
		os.Exit(1)
	}
}
