// Package store persists reconciliation periods per user. The Firestore
// implementation backs production; the in-memory one backs local development
// and tests.
package store

import (
	"context"
	"errors"

	"github.com/conciliar/balancete/backend/internal/balancete"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=store

// ErrPeriodNotFound is returned when no period exists under the given key.
var ErrPeriodNotFound = errors.New("period not found")

// Store defines the database operations used by the service. Periods are
// written whole; the record under "<ano>-<mes>" is always a full replacement.
type Store interface {
	CreatePeriod(ctx context.Context, userID string, period *balancete.Period) error
	GetPeriod(ctx context.Context, userID, key string) (*balancete.Period, error)
	UpdatePeriod(ctx context.Context, userID string, period *balancete.Period) error
	DeletePeriod(ctx context.Context, userID, key string) error
	ListPeriods(ctx context.Context, userID string) ([]*balancete.Period, error)

	// WatchPeriods streams full snapshots of the user's period list, most
	// recent first, starting with the current state. The channel closes when
	// ctx is done or the underlying watch fails.
	WatchPeriods(ctx context.Context, userID string) (<-chan []*balancete.Period, error)
}
