package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/shenfeiyu123456/auctionmarket/config"
	"github.com/shenfeiyu123456/auctionmarket/core"
	"github.com/shenfeiyu123456/auctionmarket/custody"
	"github.com/shenfeiyu123456/auctionmarket/events"
	"github.com/shenfeiyu123456/auctionmarket/registry"
	"github.com/shenfeiyu123456/auctionmarket/server"
)

func main() {
	// Local .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	beacon, err := registry.NewBeacon(core.Identity(cfg.BeaconOwner), core.StandardPolicy{})
	if err != nil {
		log.Fatalf("beacon init failed: %v", err)
	}

	var publisher events.Publisher
	if cfg.RabbitURL != "" {
		publisher = events.NewAMQP(cfg.RabbitURL)
		log.Printf("INFO: publishing creation events to RabbitMQ")
	} else {
		publisher = events.NewMemory()
		log.Printf("INFO: no RABBITMQ_URL set, recording creation events in memory")
	}

	assets := custody.NewAssetLedger()
	vault := custody.NewVault()
	reg := registry.NewRegistry(beacon, assets, vault, publisher)

	e := echo.New()
	e.HideBanner = true
	server.New(reg, assets, vault).Register(e)

	addr := ":" + cfg.Port
	log.Printf("INFO: auction market listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
