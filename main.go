package main

import (
	"log"

	"github.com/opencatalog/researchd/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
