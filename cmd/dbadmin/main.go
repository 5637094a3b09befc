package main

import (
	"os"

	"github.com/GregMSThompson/dbadmin/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
