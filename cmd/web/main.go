package main

import "ensemble_backend/internal/app"

func main() {
	app.Run()
}
