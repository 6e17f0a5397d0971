// @title        Shop Orders API
// @version      1.0
// @description  Order workflow engine with PayPal payment reconciliation.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

//go:generate swag init --parseInternal -g cmd/api/main.go -d ../../ -o ../../docs

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Apurer/go-gin-shop-api/internal/app/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := api.Run(ctx); err != nil {
		log.Fatalf("shop api exited: %v", err)
	}
}
