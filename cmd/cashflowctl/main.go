package main

import (
	"os"

	"github.com/Dan9191/cashflow-service/internal/cli"
)

func main() {
	if err := cli.Execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}
