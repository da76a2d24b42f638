package main

import (
	"github.com/avinassh/rtiman/config"
	"github.com/avinassh/rtiman/internal/app"
)

func main() {
	// create and initialize the app
	app, err := app.NewApp(config.CONFIG_PATH)
	if err != nil {
		panic(err)
	}

	// run the app; blocks serving requests until the listener fails
	err = app.Run()
	if err != nil {
		panic(err)
	}
}
