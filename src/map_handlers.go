package main

import (
	"log"
	"net/http"

	"portal/src/lib"

	"github.com/gin-gonic/gin"
)

type Building struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Purpose string  `json:"purpose,omitempty"`
}

var campusBuildings = []Building{
	{Code: "LIB", Name: "Main Library", Lat: 40.00321, Lng: -83.01427, Purpose: "library"},
	{Code: "SU", Name: "Student Union", Lat: 40.00284, Lng: -83.00871, Purpose: "dining"},
	{Code: "REC", Name: "Recreation Center", Lat: 40.00145, Lng: -83.01812, Purpose: "athletics"},
	{Code: "SCI", Name: "Science Hall", Lat: 40.00412, Lng: -83.01233, Purpose: "academic"},
	{Code: "ADM", Name: "Administration Building", Lat: 40.00507, Lng: -83.01098, Purpose: "billing"},
	{Code: "RES-N", Name: "North Residence Hall", Lat: 40.00633, Lng: -83.01501, Purpose: "housing"},
	{Code: "TUT", Name: "Learning Commons", Lat: 40.00358, Lng: -83.01389, Purpose: "tutoring"},
}

func mapHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/map/buildings", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"data": campusBuildings})
		}).
		GET("/map/geocode", func(ctx *gin.Context) {
			var query struct {
				Address string `form:"address" binding:"required"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			results, err := lib.GeocodeAddress(ctx, query.Address)
			if err != nil {
				log.Printf("Error geocoding %q: %s\n", query.Address, err.Error())
				ctx.JSON(http.StatusBadGateway, gin.H{"error": "geocoding unavailable"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": results})
		})
	return g
}
