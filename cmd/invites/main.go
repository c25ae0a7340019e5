package main

import (
	"context"
	"log"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/app"
)

//go:generate swag init -g ../../internal/invites/http/router.go -d ../../internal/invites/http,../../pkg/invitesdk -o ../../api/invites --packageName invites --outputTypes go

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	application, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
