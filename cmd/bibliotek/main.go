package main

import (
	"os"

	"github.com/bibliotek/bibliotek/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
