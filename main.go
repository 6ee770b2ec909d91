package main

import (
	"os"

	"github.com/ngerke/analysis-model/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
