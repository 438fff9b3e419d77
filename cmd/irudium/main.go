package main

import (
	"log"

	site "github.com/irudium/site"
)

func main() {
	cfg, err := site.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	app := site.New(cfg)
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
