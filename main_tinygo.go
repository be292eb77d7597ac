//go:build tinygo && baremetal

package main

import (
	"barface/app"
	"barface/hal"
)

func main() {
	app.Run(hal.New(), app.Config{Status: true})
}
