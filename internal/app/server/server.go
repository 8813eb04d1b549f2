package server

import (
	"log"
	"net/http"

	"github.com/billingworks/statements/internal/app/client"
	"github.com/billingworks/statements/internal/app/config"
	"github.com/billingworks/statements/internal/app/handlers"
	"github.com/billingworks/statements/internal/app/money"
	"github.com/billingworks/statements/internal/app/reconcile"
	"github.com/billingworks/statements/internal/app/statement"
	"github.com/billingworks/statements/internal/app/storage"
)

func Serve(cfg *config.Config) error {
	ordersClient := client.NewOrdersCli(cfg.OrdersSystemAddress, cfg.ClientTimeout)
	ledgerClient := client.NewLedgerCli(cfg.LedgerSystemAddress, cfg.ClientTimeout)

	reconciler := reconcile.NewReconciler(money.Parse(cfg.MismatchTolerance))
	opts := statement.Options{
		DateLocale:            cfg.DateLocale,
		IncludeCurrencySymbol: cfg.IncludeCurrencySymbol,
	}

	repo, err := storage.NewRepoDB(cfg.DatabaseURI, ordersClient, ledgerClient, reconciler, opts)
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	var baseHandler = handlers.NewBaseHandler(repo, ordersClient, cfg.SecretKey)

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: baseHandler,
	}

	return server.ListenAndServe()
}
