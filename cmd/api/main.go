package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"evchargesim/internal/apiserver/handlers"
	"evchargesim/internal/apiserver/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

func main() {
	outpath := flag.String("outpath", "outputs", "Run output directory to serve (specs.csv/report.csv/events.csv)")
	addr := flag.String("addr", ":8080", "Listen address")
	flag.Parse()

	if _, err := os.Stat(*outpath); err != nil {
		log.Fatalf("outpath %q not usable: %v", *outpath, err)
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(middleware.ErrorHandler())

	resultsHandler := handlers.NewResultsHandler(*outpath)
	router.GET("/summary", resultsHandler.Summary)
	router.GET("/agents", resultsHandler.Agents)
	router.GET("/agents/:pid", resultsHandler.Agent)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	log.Printf("Serving results from %s on %s", *outpath, *addr)
	if err := http.ListenAndServe(*addr, corsHandler.Handler(router)); err != nil {
		log.Fatalf("api server failed: %v", err)
	}
}
