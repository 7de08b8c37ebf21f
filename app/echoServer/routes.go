package echoServer

import (
	"rentalhub/app/echoServer/controller/asset"
	"rentalhub/app/echoServer/controller/customer"
	"rentalhub/app/echoServer/controller/rental"

	"github.com/labstack/echo/v4"
)

type C struct {
	Asset    *asset.Controller
	Customer *customer.Controller
	Rental   *rental.Controller

	APIKey string
}

func Register(e *echo.Echo, c C) {
	api := e.Group("/api", APIKey(c.APIKey))

	// Assets
	api.GET("/assets", c.Asset.List)
	api.GET("/assets/available", c.Asset.ListAvailable)
	api.POST("/assets", c.Asset.Create)
	api.PUT("/assets/:id", c.Asset.Update)
	api.DELETE("/assets/:id", c.Asset.Delete)

	// Customers
	api.GET("/customers", c.Customer.List)
	api.POST("/customers", c.Customer.Create)
	api.PUT("/customers/:id", c.Customer.Update)
	api.DELETE("/customers/:id", c.Customer.Delete)

	// Rentals
	api.POST("/rentals/book/:assetId/customer/:customerId", c.Rental.Create)
	api.GET("/rentals", c.Rental.List)
	api.GET("/rentals/:id", c.Rental.Get)
	api.PUT("/rentals/return/:id", c.Rental.Return)
	api.DELETE("/rentals/:id", c.Rental.Delete)
	api.GET("/rentals/history/asset/:id", c.Rental.AssetHistory)
	api.GET("/rentals/history/customer/:id", c.Rental.CustomerHistory)
}
