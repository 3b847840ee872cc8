package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/mahjong-solver/internal/histogram"
)

// ErrDuplicateLabel is returned when a run with the same label was
// already stored.
var ErrDuplicateLabel = errors.New("duplicate run label")

// BoardRun is one stored sampling run: its parameters, the solvable
// tally and the merged depth histogram.
type BoardRun struct {
	BoardRunID     int64           `json:"board_run_id"`
	Label          string          `json:"label"`
	Seed           int64           `json:"seed"`
	Boards         int32           `json:"boards"`
	Rollouts       int32           `json:"rollouts"`
	SolvableBoards int32           `json:"solvable_boards"`
	Histogram      json.RawMessage `json:"histogram"`
	CreatedAt      time.Time       `json:"created_at"`
}

type CreateBoardRunParams struct {
	Label          string
	Seed           int64
	Boards         int32
	Rollouts       int32
	SolvableBoards int32
	Histogram      *histogram.Histogram
}

func (q Queries) CreateBoardRun(
	ctx context.Context, params CreateBoardRunParams,
) (*BoardRun, error) {
	hist, err := json.Marshal(params.Histogram.Counts())
	if err != nil {
		return nil, err
	}

	query := `
	INSERT INTO board_run (
		label, seed, boards, rollouts, solvable_boards, histogram
	)
	VALUES (
		@label, @seed, @boards, @rollouts, @solvableBoards, @histogram
	)
	RETURNING *;
	`

	args := pgx.NamedArgs{
		"label":          params.Label,
		"seed":           params.Seed,
		"boards":         params.Boards,
		"rollouts":       params.Rollouts,
		"solvableBoards": params.SolvableBoards,
		"histogram":      hist,
	}

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrDuplicateLabel
		}
		return nil, err
	}

	run, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[BoardRun])
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrDuplicateLabel
		}
		return nil, err
	}
	return &run, nil
}

func (q Queries) GetBoardRun(ctx context.Context, label string) (*BoardRun, error) {
	query := `SELECT * FROM board_run WHERE label = @label;`

	rows, err := q.db.Query(ctx, query, pgx.NamedArgs{"label": label})
	if err != nil {
		return nil, err
	}
	run, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[BoardRun])
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (q Queries) ListBoardRuns(ctx context.Context, limit int32) ([]BoardRun, error) {
	query := `
	SELECT * FROM board_run
	ORDER BY created_at DESC
	LIMIT @limit;
	`

	rows, err := q.db.Query(ctx, query, pgx.NamedArgs{"limit": limit})
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[BoardRun])
}
