package main

import (
	"crypto/rand"
	"flag"
	"log"

	"github.com/caarlos0/env/v6"

	"github.com/billingworks/statements/internal/app/config"
	"github.com/billingworks/statements/internal/app/server"
)

func main() {
	randBytes := make([]byte, 16)
	_, err := rand.Read(randBytes)
	if err != nil {
		log.Fatal(err)
		return
	}
	secretKey := string(randBytes)

	cfg := config.Config{
		RunAddress:            "localhost:8081",
		DatabaseURI:           "postgres://localhost:5432/statements",
		OrdersSystemAddress:   "http://localhost:8080",
		LedgerSystemAddress:   "http://localhost:8082",
		SecretKey:             secretKey,
		ClientTimeout:         5,
		MismatchTolerance:     "0.01",
		DateLocale:            "en-US",
		IncludeCurrencySymbol: true,
	}

	if err := env.Parse(&cfg); err != nil {
		log.Fatal(err)
		return
	}

	flag.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "run address")
	flag.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "database URI")
	flag.StringVar(&cfg.OrdersSystemAddress, "o", cfg.OrdersSystemAddress, "orders system address")
	flag.StringVar(&cfg.LedgerSystemAddress, "r", cfg.LedgerSystemAddress, "ledger system address")
	flag.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	flag.StringVar(&cfg.MismatchTolerance, "t", cfg.MismatchTolerance, "mismatch tolerance")
	flag.StringVar(&cfg.DateLocale, "l", cfg.DateLocale, "date locale")
	flag.Parse()

	log.Fatal(server.Serve(&cfg))
}
