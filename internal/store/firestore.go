package store

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/conciliar/balancete/backend/internal/balancete"
)

// FirestoreStore implements the Store interface using Firestore. Periods live
// at balancetes/{userID}/periodos/{ano-mes}, one document per period, so a
// user's data stays under a single parent document.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store
func NewFirestoreStore(client *firestore.Client) Store {
	return &FirestoreStore{
		client: client,
	}
}

func (s *FirestoreStore) periods(userID string) *firestore.CollectionRef {
	return s.client.Collection("balancetes").Doc(userID).Collection("periodos")
}

// CreatePeriod writes a new period document under the user's subcollection.
func (s *FirestoreStore) CreatePeriod(ctx context.Context, userID string, period *balancete.Period) error {
	_, err := s.periods(userID).Doc(period.Key()).Set(ctx, period)
	if err != nil {
		return fmt.Errorf("failed to create period %s: %w", period.Key(), err)
	}
	return nil
}

// GetPeriod retrieves one period by its "<ano>-<mes>" key.
func (s *FirestoreStore) GetPeriod(ctx context.Context, userID, key string) (*balancete.Period, error) {
	doc, err := s.periods(userID).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrPeriodNotFound
		}
		return nil, fmt.Errorf("failed to get period %s: %w", key, err)
	}

	var period balancete.Period
	if err := doc.DataTo(&period); err != nil {
		return nil, fmt.Errorf("failed to parse period %s: %w", key, err)
	}
	return &period, nil
}

// UpdatePeriod replaces the stored period document. Set writes the whole
// document atomically, which keeps the contas array and the counts in step.
func (s *FirestoreStore) UpdatePeriod(ctx context.Context, userID string, period *balancete.Period) error {
	_, err := s.periods(userID).Doc(period.Key()).Set(ctx, period)
	if err != nil {
		return fmt.Errorf("failed to update period %s: %w", period.Key(), err)
	}
	return nil
}

// DeletePeriod removes a period document. Deleting a missing document is not
// an error in Firestore, and callers rely on delete being idempotent.
func (s *FirestoreStore) DeletePeriod(ctx context.Context, userID, key string) error {
	_, err := s.periods(userID).Doc(key).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete period %s: %w", key, err)
	}
	return nil
}

// ListPeriods returns all of the user's periods, most recent first.
func (s *FirestoreStore) ListPeriods(ctx context.Context, userID string) ([]*balancete.Period, error) {
	iter := s.periods(userID).Documents(ctx)
	defer iter.Stop()

	var periods []*balancete.Period
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list periods: %w", err)
		}
		var period balancete.Period
		if err := doc.DataTo(&period); err != nil {
			return nil, fmt.Errorf("failed to parse period %s: %w", doc.Ref.ID, err)
		}
		periods = append(periods, &period)
	}

	balancete.SortPeriodsDesc(periods)
	return periods, nil
}

// WatchPeriods streams the user's period list via Firestore snapshot listens.
// Each snapshot carries the full collection, so consumers always replace
// rather than patch their local state.
func (s *FirestoreStore) WatchPeriods(ctx context.Context, userID string) (<-chan []*balancete.Period, error) {
	out := make(chan []*balancete.Period, 1)
	snapshots := s.periods(userID).Snapshots(ctx)

	go func() {
		defer close(out)
		defer snapshots.Stop()
		for {
			snap, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("period watch for user %s ended: %v", userID, err)
				}
				return
			}

			var periods []*balancete.Period
			for {
				doc, err := snap.Documents.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					log.Printf("period watch read for user %s failed: %v", userID, err)
					return
				}
				var period balancete.Period
				if err := doc.DataTo(&period); err != nil {
					log.Printf("skipping unreadable period %s: %v", doc.Ref.ID, err)
					continue
				}
				periods = append(periods, &period)
			}
			balancete.SortPeriodsDesc(periods)

			select {
			case out <- periods:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
