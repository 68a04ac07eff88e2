// Command irrigo is the fuzzy-logic irrigation controller CLI.
package main

import (
	"os"

	"github.com/Dicklesworthstone/irrigo/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
