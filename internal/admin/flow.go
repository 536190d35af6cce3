// Package admin provides the mutation flow of the back-office: one CRUD
// operation against the gateway, then a bus publish so every open view
// reconciles. Nothing becomes visible before the gateway confirms the
// write; this system is not optimistic-UI.
package admin

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/horizonbtp/vitrine/internal/bus"
	apperrors "github.com/horizonbtp/vitrine/internal/errors"
	"github.com/horizonbtp/vitrine/internal/gateway"
	"github.com/horizonbtp/vitrine/internal/logging"
	"github.com/horizonbtp/vitrine/internal/models"
)

// State is the externally observable state of the flow. A mutation moves
// idle -> submitting -> idle whether it confirms or fails; there is no
// observable applied-but-unconfirmed state.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
)

// Flow performs confirmed mutations and guarantees viewer reconciliation.
type Flow struct {
	gw  gateway.Gateway
	bus *bus.Bus

	inFlight atomic.Int64
}

// New creates a Flow over the gateway and bus.
func New(gw gateway.Gateway, b *bus.Bus) *Flow {
	return &Flow{gw: gw, bus: b}
}

// State returns the current flow state.
func (f *Flow) State() State {
	if f.inFlight.Load() > 0 {
		return StateSubmitting
	}
	return StateIdle
}

// Insert creates a row. On success the bus publish fires exactly once; on
// failure nothing is published because nothing changed.
func (f *Flow) Insert(ctx context.Context, table models.Table, row models.Row) (models.Row, error) {
	return f.run(table, func() (models.Row, error) {
		return f.gw.Insert(ctx, table, row)
	})
}

// Update replaces a row's mutable fields.
func (f *Flow) Update(ctx context.Context, table models.Table, id models.UUID, row models.Row) (models.Row, error) {
	return f.run(table, func() (models.Row, error) {
		return f.gw.Update(ctx, table, id, row)
	})
}

// Delete removes a row.
func (f *Flow) Delete(ctx context.Context, table models.Table, id models.UUID) error {
	_, err := f.run(table, func() (models.Row, error) {
		if err := f.gw.Delete(ctx, table, id); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// SetStatus transitions a row's lifecycle status. The new status must be in
// the table's closed set; concurrent transitions resolve last-write-wins at
// the gateway.
func (f *Flow) SetStatus(ctx context.Context, table models.Table, id models.UUID, status string) (models.Row, error) {
	return f.run(table, func() (models.Row, error) {
		row, err := f.gw.Get(ctx, table, id)
		if err != nil {
			return nil, err
		}
		if err := setStatus(row, status); err != nil {
			return nil, err
		}
		return f.gw.Update(ctx, table, id, row)
	})
}

// run wraps one mutation in the submitting state and publishes on success.
func (f *Flow) run(table models.Table, mutate func() (models.Row, error)) (models.Row, error) {
	f.inFlight.Add(1)
	defer f.inFlight.Add(-1)

	row, err := mutate()
	if err != nil {
		logging.Warn("mutation failed", logging.Fields{
			"table": table.String(),
			"error": err.Error(),
		})
		return nil, apperrors.Wrap(apperrors.ErrMutationFailed, fmt.Sprintf("mutation on %s failed", table), err)
	}

	// The write is durably confirmed; fan the reload signal out. The
	// admin view's own list refreshes through its bus subscription.
	f.bus.Publish(table)
	return row, nil
}

// setStatus assigns a validated status to a typed row.
func setStatus(row models.Row, status string) error {
	switch r := row.(type) {
	case *models.Property:
		s := models.PropertyStatus(status)
		if !s.Valid() {
			return statusError(row, status)
		}
		r.Status = s
	case *models.Project:
		s := models.ProjectStatus(status)
		if !s.Valid() {
			return statusError(row, status)
		}
		r.Status = s
	case *models.Vehicle:
		s := models.VehicleStatus(status)
		if !s.Valid() {
			return statusError(row, status)
		}
		r.Status = s
	case *models.Testimonial:
		s := models.TestimonialStatus(status)
		if !s.Valid() {
			return statusError(row, status)
		}
		r.Status = s
	case *models.ContactMessage:
		s := models.ContactStatus(status)
		if !s.Valid() {
			return statusError(row, status)
		}
		r.Status = s
	default:
		return apperrors.New(apperrors.ErrValidation, fmt.Sprintf("unsupported row type %T", row))
	}
	return nil
}

func statusError(row models.Row, status string) error {
	return apperrors.New(apperrors.ErrInvalidStatus,
		fmt.Sprintf("invalid %s status %q", row.RowTable(), status))
}
