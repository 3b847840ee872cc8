package main

import (
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/mahjong-solver/internal/experiment"
	"github.com/vancomm/mahjong-solver/internal/mahjong"
)

type NewBoardParams struct {
	Seed uint64 `schema:"seed"`
}

type RolloutParams struct {
	Count   int `schema:"count,required"`
	Workers int `schema:"workers"`
}

type BoardDTO struct {
	*boardSession
	Pieces int    `json:"pieces"`
	Render string `json:"render"`
}

type RolloutResultDTO struct {
	BoardID   int64          `json:"board_id"`
	Rollouts  uint64         `json:"rollouts"`
	Solvable  bool           `json:"solvable"`
	Histogram map[int]uint64 `json:"histogram"`
}

func newBoardDTO(session *boardSession) BoardDTO {
	return BoardDTO{
		boardSession: session,
		Pieces:       session.Board.Count(),
		Render:       session.Board.String(),
	}
}

func handleNewBoard(w http.ResponseWriter, r *http.Request) {
	var params NewBoardParams
	if err := decoder.Decode(&params, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if params.Seed == 0 {
		params.Seed = seeder.Uint64()
	}

	board := mahjong.NewBoard()
	if err := board.Fill(rand.New(rand.NewPCG(params.Seed, 0))); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error("unable to fill board: ", err)
		return
	}

	session := sessions.Add(board, params.Seed)
	log.WithFields(logrus.Fields{
		"boardId": session.ID,
		"seed":    session.Seed,
	}).Info("new board")

	sendJSON(w, newBoardDTO(session))
}

func handleGetBoard(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromPath(r.PathValue("id"))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	sendJSON(w, newBoardDTO(session))
}

func handleRollouts(w http.ResponseWriter, r *http.Request) {
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

	start := time.Now()
	batch := &experiment.Batch{
		Board:    session.Board,
		Rollouts: params.Count,
		Workers:  params.Workers,
		Seed:     session.Seed,
		Stream:   uint64(time.Now().UnixNano()),
	}
	hist, err := batch.Run(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error("rollout batch: ", err)
		return
	}

	log.WithFields(logrus.Fields{
		"boardId":  session.ID,
		"rollouts": params.Count,
		"solvable": hist.Solvable(),
		"elapsed":  time.Since(start).Round(time.Millisecond),
	}).Info("rollout batch done")

	sendJSON(w, RolloutResultDTO{
		BoardID:   session.ID,
		Rollouts:  hist.Total(),
		Solvable:  hist.Solvable(),
		Histogram: hist.Counts(),
	})
}
