package main

import (
	"os"

	"github.com/cuongduong73/ankiquiz/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
