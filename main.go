package main

import (
	"log"

	"github.com/teammatch/matchflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
