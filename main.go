// main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gewnthar/faawaypoints/config"
	"github.com/gewnthar/faawaypoints/database"
	"github.com/gewnthar/faawaypoints/handlers"
	"github.com/gewnthar/faawaypoints/logging"
	"github.com/gewnthar/faawaypoints/services"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	inputDir := flag.String("dir", "", "directory containing APT.txt, NAV.txt and FIX.txt")
	outputPath := flag.String("o", "", "output file (default waypoints.json)")
	format := flag.String("format", "", "output format: listing or json")
	csvPath := flag.String("csv", "", "also write the waypoints as CSV to this file")
	fetch := flag.Bool("fetch", false, "download the current NASR edition before extracting")
	useDB := flag.Bool("db", false, "save the waypoints to the configured MySQL database")
	serve := flag.Bool("serve", false, "serve the waypoints over HTTP after extracting")
	fromDB := flag.Bool("from-db", false, "serve the waypoints saved by an earlier -db run instead of extracting (implies -db and -serve)")
	flag.Parse()

	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	cfg := &config.AppConfig
	if *inputDir != "" {
		cfg.Input.Dir = *inputDir
	}
	if *outputPath != "" {
		cfg.Output.Path = *outputPath
	}
	if *format != "" {
		cfg.Output.Format = *format
	}
	if *csvPath != "" {
		cfg.Output.CSVPath = *csvPath
	}
	if *useDB || *fromDB {
		cfg.Database.Enabled = true
	}
	if *fromDB {
		*serve = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logCloser, err := logging.Setup(cfg.Logging)
	if err != nil {
		log.Fatalf("Error setting up logging: %v", err)
	}
	defer logCloser.Close()

	if cfg.Database.Enabled {
		if err := database.InitDB(cfg.Database); err != nil {
			log.Fatalf("Error initializing database: %v", err)
		}
		defer database.CloseDB()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error
	if *fromDB {
		_, runErr = services.LoadStoreFromDatabase()
	} else {
		_, runErr = services.RunWaypointExtractor(ctx, *cfg, services.RunOptions{Fetch: *fetch})
	}
	if runErr != nil {
		// log.Fatalf would skip the deferred closes.
		log.Printf("ERROR: %v", runErr)
		database.CloseDB()
		logCloser.Close()
		os.Exit(1)
	}

	if !*serve {
		return
	}

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux)
	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("Server starting on http://localhost%s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("ERROR: starting server: %v", err)
	}
	log.Println("Server stopped.")
}
