package main

import (
	"net/http"

	"github.com/vancomm/mahjong-solver/internal/middleware"
)

func buildHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/board", handleNewBoard)
	mux.HandleFunc("GET /v1/board/{id}", handleGetBoard)
	mux.HandleFunc("POST /v1/board/{id}/rollouts", handleRollouts)

	mux.HandleFunc("/v1/board/{id}/watch", handleWatchWs)

	return middleware.Wrap(mux,
		middleware.Logging(log),
		middleware.Cors(),
	)
}
