package main

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vancomm/mahjong-solver/internal/experiment"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		log.Debug("\tws origin: ", r.Host)
		return true
	},
}

type progressMessage struct {
	Done  int  `json:"done"`
	Total int  `json:"total"`
	Final bool `json:"final"`
}

// handleWatchWs runs a rollout batch and streams its progress over a
// websocket, finishing with the histogram result.
func handleWatchWs(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromPath(r.PathValue("id"))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var params RolloutParams
	if err := decoder.Decode(&params, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if params.Count < 1 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("upgrade: ", err)
		return
	}
	defer c.Close()

	// workers report concurrently, the connection takes one writer at
	// a time
	var mu sync.Mutex
	batch := &experiment.Batch{
		Board:    session.Board,
		Rollouts: params.Count,
		Workers:  params.Workers,
		Seed:     session.Seed,
		Stream:   uint64(session.ID) << 32,
		OnProgress: func(done uint64) {
			mu.Lock()
			defer mu.Unlock()
			if err := c.WriteJSON(progressMessage{
				Done:  int(done),
				Total: params.Count,
			}); err != nil {
				log.Warn("write: ", err)
			}
		},
	}

	hist, err := batch.Run(r.Context())
	if err != nil {
		log.Error("rollout batch: ", err)
		return
	}

	if err := c.WriteJSON(progressMessage{
		Done:  params.Count,
		Total: params.Count,
		Final: true,
	}); err != nil {
		log.Error("write: ", err)
		return
	}
	if err := c.WriteJSON(RolloutResultDTO{
		BoardID:   session.ID,
		Rollouts:  hist.Total(),
		Solvable:  hist.Solvable(),
		Histogram: hist.Counts(),
	}); err != nil {
		log.Error("write: ", err)
	}
}
