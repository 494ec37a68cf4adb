package main

import (
	"assetdesk/app"
	"assetdesk/routes"
	"log"
)

func main() {
	application := app.MustNew()
	defer application.Close()

	r := application.Router
	routes.RegisterRoutes(r, application)

	port := application.Config.ServerPort
	log.Printf("listening on :%s", port)
	_ = r.Run(":" + port)
}
