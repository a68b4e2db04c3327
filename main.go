package main

import "github.com/highgarden7/dddorok-admin-backend/cmd/app"

func main() {
	app.Run()
}
