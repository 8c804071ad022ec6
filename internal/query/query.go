// Package query runs the parameterized lookups behind each intent and
// reports their outcome as a Result rather than a bare value.
package query

import (
	"context"
	"errors"

	"github.com/albapepper/nba-stats-bot/internal/store"
)

// Status is the outcome of a lookup.
type Status int

const (
	Found Status = iota
	NotFound
	DataUnavailable // relation missing: ETL has not run
	Fault
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case DataUnavailable:
		return "data_unavailable"
	default:
		return "fault"
	}
}

// Result carries a lookup value or the reason there is none. Err is set for
// DataUnavailable and Fault.
type Result[T any] struct {
	Status Status
	Value  T
	Err    error
}

func found[T any](v T) Result[T] {
	return Result[T]{Status: Found, Value: v}
}

func fromError[T any](err error) Result[T] {
	if errors.Is(err, store.ErrNotReady) {
		return Result[T]{Status: DataUnavailable, Err: err}
	}
	return Result[T]{Status: Fault, Err: err}
}

// Reader is the subset of the store the engine reads.
type Reader interface {
	AveragePoints(ctx context.Context, teamID, season int) (float64, bool, error)
	LastGame(ctx context.Context, teamID int) (store.GameResult, bool, error)
	TeamName(ctx context.Context, id int) (string, bool, error)
	LatestSeason(ctx context.Context) (int, bool, error)
}

// Engine answers lookups against a Reader.
type Engine struct {
	r Reader
}

// New returns an engine over r.
func New(r Reader) *Engine {
	return &Engine{r: r}
}

// AveragePoints returns the team's mean points per game in season, rounded
// to one decimal.
func (e *Engine) AveragePoints(ctx context.Context, teamID, season int) Result[float64] {
	avg, ok, err := e.r.AveragePoints(ctx, teamID, season)
	if err != nil {
		return fromError[float64](err)
	}
	if !ok {
		return Result[float64]{Status: NotFound}
	}
	return found(avg)
}

// LastGame returns the team's most recent game in any season.
func (e *Engine) LastGame(ctx context.Context, teamID int) Result[store.GameResult] {
	g, ok, err := e.r.LastGame(ctx, teamID)
	if err != nil {
		return fromError[store.GameResult](err)
	}
	if !ok {
		return Result[store.GameResult]{Status: NotFound}
	}
	return found(g)
}

// TeamName returns the canonical name for id.
func (e *Engine) TeamName(ctx context.Context, id int) Result[string] {
	name, ok, err := e.r.TeamName(ctx, id)
	if err != nil {
		return fromError[string](err)
	}
	if !ok {
		return Result[string]{Status: NotFound}
	}
	return found(name)
}

// LatestSeason returns the most recent season with games.
func (e *Engine) LatestSeason(ctx context.Context) Result[int] {
	season, ok, err := e.r.LatestSeason(ctx)
	if err != nil {
		return fromError[int](err)
	}
	if !ok {
		return Result[int]{Status: NotFound}
	}
	return found(season)
}
