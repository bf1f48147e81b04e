package main

import "github.com/init-pkg/meal-routes/internal/bootstrap"

// @title meal-routes API
// @version 1.0
// @description Beneficiary sheet import, geocoding and delivery route planning.
// @BasePath /
func main() {
	bootstrap.Run()
}
