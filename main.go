package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	configPath := flag.String("config", "", "Path to YAML config file")
	dbPath := flag.String("db", "", "Path to SQLite database (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		panic("config: " + err.Error())
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *debug {
		cfg.Debug = true
	}

	var log *zap.Logger
	if cfg.Debug {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		panic("logger: " + err.Error())
	}
	defer log.Sync()

	var db *DB
	if cfg.DBPath != "" {
		db, err = OpenDB(cfg.DBPath, log)
		if err != nil {
			log.Fatal("open database", zap.Error(err))
		}
		defer db.Close()
	} else {
		log.Info("no db_path configured, results and accounts disabled")
	}

	var tracker *Analytics
	var store ResultStore
	var auth *Auth
	if db != nil {
		tracker = NewAnalytics(db, log)
		defer tracker.Stop()
		store = db
		auth = NewAuth(db, log)
	}

	enricher := NewEnricher(cfg)
	if enricher == nil {
		log.Info("enrichment disabled, using canned dialogue")
	}

	hub := NewHub(log)
	rooms := NewRoomManager(cfg, log, hub, enricher, tracker, store)
	srv := NewServer(cfg, log, hub, rooms, auth, db)

	server := &http.Server{Addr: cfg.Addr, Handler: srv.SetupRoutes()}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("server starting", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	<-stop
	log.Info("shutting down")
	rooms.StopAll()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}
