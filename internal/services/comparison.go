package services

import (
	"context"
	"errors"

	"github.com/tbourn/go-motormony/internal/domain"
	"github.com/tbourn/go-motormony/internal/results"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// VehicleRef points at a vehicle either by its index in the working
// collection or by name. Index wins when both are set.
type VehicleRef struct {
	Index *int
	Name  string
}

// resolve finds the referenced vehicle in sess.
func (r VehicleRef) resolve(sess *results.Session) (domain.Vehicle, error) {
	if r.Index != nil {
		return sess.Vehicle(*r.Index)
	}
	if r.Name == "" {
		return domain.Vehicle{}, ErrVehicleNotFound
	}
	v, ok := sess.Lookup(r.Name)
	if !ok {
		return domain.Vehicle{}, ErrVehicleNotFound
	}
	return v, nil
}

// AddComparison appends the referenced vehicle to the comparison set.
// Capacity is checked before duplicates: a full set reports
// results.ErrComparisonFull even for a vehicle already in it.
func (s *ExplorerService) AddComparison(ctx context.Context, userID, sessionID string, ref VehicleRef) (results.Snapshot, error) {
	return s.mutateComparison(ctx, "AddComparison", userID, sessionID, func(sess *results.Session) error {
		v, err := ref.resolve(sess)
		if err != nil {
			return err
		}
		return sess.Compare(v)
	})
}

// ToggleComparison sets the referenced vehicle's membership. Removing a
// vehicle that is not compared is a no-op.
func (s *ExplorerService) ToggleComparison(ctx context.Context, userID, sessionID string, ref VehicleRef, member bool) (results.Snapshot, error) {
	return s.mutateComparison(ctx, "ToggleComparison", userID, sessionID, func(sess *results.Session) error {
		v, err := ref.resolve(sess)
		if err != nil {
			return err
		}
		return sess.Toggle(v, member)
	})
}

// RemoveComparison removes the entry at position pos. An out-of-range
// position leaves the set unchanged.
func (s *ExplorerService) RemoveComparison(ctx context.Context, userID, sessionID string, pos int) (results.Snapshot, error) {
	return s.mutateComparison(ctx, "RemoveComparison", userID, sessionID, func(sess *results.Session) error {
		sess.Uncompare(pos)
		return nil
	})
}

// mutateComparison applies fn and persists the resulting set. A failed write
// restores the previous set.
func (s *ExplorerService) mutateComparison(ctx context.Context, op, userID, sessionID string, fn func(*results.Session) error) (results.Snapshot, error) {
	tr := otel.Tracer("services/ExplorerService")
	ctx, span := tr.Start(ctx, op, trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	var snap results.Snapshot
	err := s.with(ctx, userID, sessionID, func(sess *results.Session) error {
		before := sess.Comparison()
		rev := sess.Revision()
		if err := fn(sess); err != nil {
			s.recordRejection(err)
			return err
		}
		if sess.Revision() != rev {
			if err := s.Repo.ReplaceComparison(ctx, s.DB, sessionID, sess.Comparison()); err != nil {
				sess.SetComparison(before)
				return err
			}
		}
		snap = sess.Snapshot()
		return nil
	})
	if err != nil {
		span.RecordError(err)
	}
	return snap, err
}

func (s *ExplorerService) recordRejection(err error) {
	switch {
	case errors.Is(err, results.ErrComparisonFull):
		s.metrics().ComparisonRejected("full")
	case errors.Is(err, results.ErrAlreadyCompared):
		s.metrics().ComparisonRejected("duplicate")
	}
}
