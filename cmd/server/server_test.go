package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/mahjong-solver/internal/mahjong"
)

func TestMain(m *testing.M) {
	log.SetLevel(logrus.ErrorLevel)
	m.Run()
}

func doRequest(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	buildHandler().ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestHandleNewBoard(t *testing.T) {
	w := doRequest(t, http.MethodPost, "/v1/board?seed=42")
	require.Equal(t, http.StatusOK, w.Code)

	var dto struct {
		BoardID int64  `json:"board_id"`
		Seed    uint64 `json:"seed"`
		Pieces  int    `json:"pieces"`
		Render  string `json:"render"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Positive(t, dto.BoardID)
	assert.Equal(t, uint64(42), dto.Seed)
	assert.Equal(t, mahjong.NumPieces, dto.Pieces)
	assert.NotEmpty(t, dto.Render)

	w = doRequest(t, http.MethodGet, "/v1/board/1")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleGetBoardNotFound(t *testing.T) {
	assert.Equal(t, http.StatusNotFound,
		doRequest(t, http.MethodGet, "/v1/board/99999").Code)
	assert.Equal(t, http.StatusNotFound,
		doRequest(t, http.MethodGet, "/v1/board/nonsense").Code)
}

func TestHandleRollouts(t *testing.T) {
	w := doRequest(t, http.MethodPost, "/v1/board?seed=7")
	require.Equal(t, http.StatusOK, w.Code)

	var board struct {
		BoardID int64 `json:"board_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))

	target := "/v1/board/" + strconv.FormatInt(board.BoardID, 10) + "/rollouts?count=50&workers=2"
	w = doRequest(t, http.MethodPost, target)
	require.Equal(t, http.StatusOK, w.Code)

	var result RolloutResultDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, board.BoardID, result.BoardID)
	assert.Equal(t, uint64(50), result.Rollouts)
	assert.NotEmpty(t, result.Histogram)
}

func TestHandleRolloutsBadParams(t *testing.T) {
	w := doRequest(t, http.MethodPost, "/v1/board?seed=9")
	require.Equal(t, http.StatusOK, w.Code)

	var board struct {
		BoardID int64 `json:"board_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))

	base := "/v1/board/" + strconv.FormatInt(board.BoardID, 10) + "/rollouts"
	assert.Equal(t, http.StatusBadRequest,
		doRequest(t, http.MethodPost, base).Code, "count is required")
	assert.Equal(t, http.StatusBadRequest,
		doRequest(t, http.MethodPost, base+"?count=0").Code)
}
