package admin

import (
	"context"
	"testing"

	"github.com/horizonbtp/vitrine/internal/bus"
	apperrors "github.com/horizonbtp/vitrine/internal/errors"
	"github.com/horizonbtp/vitrine/internal/gateway"
	"github.com/horizonbtp/vitrine/internal/models"
)

func setupTestFlow(t *testing.T) (*Flow, *gateway.SQLite, *bus.Bus) {
	t.Helper()
	g, err := gateway.OpenInMemory()
	if err != nil {
		t.Fatalf("Failed to open in-memory gateway: %v", err)
	}
	if err := g.Migrate(); err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}
	b := bus.New(g)
	t.Cleanup(func() {
		b.Close()
		g.Close()
	})
	return New(g, b), g, b
}

// countNotifications subscribes a counter distinguishing local publishes
// from feed echoes.
func countNotifications(b *bus.Bus, table models.Table) (published *int, fed *int) {
	published, fed = new(int), new(int)
	b.Subscribe(table, func(n bus.Notification) {
		switch n.Reason {
		case bus.ReasonLocal:
			*published++
		case bus.ReasonFeed:
			*fed++
		}
	})
	return published, fed
}

func validProperty() *models.Property {
	return &models.Property{
		Title: "Villa Tokoin", City: "Lomé", PropertyType: "villa",
		Price: 45000000, Status: models.PropertyAvailable,
	}
}

func TestInsertPublishesExactlyOnce(t *testing.T) {
	flow, _, b := setupTestFlow(t)
	published, fed := countNotifications(b, models.TableProperties)

	row, err := flow.Insert(context.Background(), models.TableProperties, validProperty())
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if row.RowID() == "" {
		t.Error("Insert should return the stamped row")
	}
	if *published != 1 {
		t.Errorf("Expected exactly 1 publish, got %d", *published)
	}
	if *fed != 1 {
		t.Errorf("Expected the feed to echo the write once, got %d", *fed)
	}
}

func TestFailedInsertPublishesNothing(t *testing.T) {
	flow, g, b := setupTestFlow(t)
	published, fed := countNotifications(b, models.TableProperties)

	invalid := validProperty()
	invalid.Title = ""
	_, err := flow.Insert(context.Background(), models.TableProperties, invalid)
	if err == nil {
		t.Fatal("Insert without a title should fail")
	}
	if !apperrors.Is(err, apperrors.ErrMutationFailed) {
		t.Errorf("Expected ErrMutationFailed wrapper, got: %v", err)
	}
	if !apperrors.Is(err, apperrors.ErrValidation) {
		t.Errorf("Underlying validation code should be preserved, got: %v", err)
	}

	if *published != 0 || *fed != 0 {
		t.Errorf("Nothing changed, nothing should be announced: published=%d fed=%d", *published, *fed)
	}

	// And nothing became visible.
	rows, err := g.Query(context.Background(), models.TableProperties, nil, gateway.Order{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Failed mutation left %d visible rows", len(rows))
	}
}

func TestUpdatePublishesAfterConfirmation(t *testing.T) {
	flow, _, b := setupTestFlow(t)

	inserted, err := flow.Insert(context.Background(), models.TableProperties, validProperty())
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	published, _ := countNotifications(b, models.TableProperties)

	edit := *(inserted.(*models.Property))
	edit.Price = 50000000
	updated, err := flow.Update(context.Background(), models.TableProperties, inserted.RowID(), &edit)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.(*models.Property).Price != 50000000 {
		t.Error("Update did not return the confirmed row")
	}
	if *published != 1 {
		t.Errorf("Expected 1 publish for the update, got %d", *published)
	}
}

func TestDeletePublishes(t *testing.T) {
	flow, g, b := setupTestFlow(t)

	inserted, err := flow.Insert(context.Background(), models.TableProperties, validProperty())
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	published, _ := countNotifications(b, models.TableProperties)

	if err := flow.Delete(context.Background(), models.TableProperties, inserted.RowID()); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if *published != 1 {
		t.Errorf("Expected 1 publish for the delete, got %d", *published)
	}

	rows, err := g.Query(context.Background(), models.TableProperties, nil, gateway.Order{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Deleted row still visible")
	}
}

func TestDeleteMissingRowPublishesNothing(t *testing.T) {
	flow, _, b := setupTestFlow(t)
	published, _ := countNotifications(b, models.TableProperties)

	err := flow.Delete(context.Background(), models.TableProperties, "no-such-id")
	if !apperrors.Is(err, apperrors.ErrRowNotFound) {
		t.Errorf("Expected ErrRowNotFound, got: %v", err)
	}
	if *published != 0 {
		t.Errorf("Failed delete should publish nothing, got %d", *published)
	}
}

func TestSetStatus(t *testing.T) {
	flow, g, _ := setupTestFlow(t)
	ctx := context.Background()

	inserted, err := flow.Insert(ctx, models.TableProperties, validProperty())
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	t.Run("valid transition", func(t *testing.T) {
		updated, err := flow.SetStatus(ctx, models.TableProperties, inserted.RowID(), "sold")
		if err != nil {
			t.Fatalf("SetStatus failed: %v", err)
		}
		if updated.RowStatus() != "sold" {
			t.Errorf("Expected status sold, got %s", updated.RowStatus())
		}

		got, err := g.Get(ctx, models.TableProperties, inserted.RowID())
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.RowStatus() != "sold" {
			t.Errorf("Status not persisted, got %s", got.RowStatus())
		}
	})

	t.Run("status outside the closed set", func(t *testing.T) {
		_, err := flow.SetStatus(ctx, models.TableProperties, inserted.RowID(), "on_fire")
		if !apperrors.Is(err, apperrors.ErrInvalidStatus) {
			t.Errorf("Expected ErrInvalidStatus, got: %v", err)
		}
	})

	t.Run("missing row", func(t *testing.T) {
		_, err := flow.SetStatus(ctx, models.TableProperties, "no-such-id", "sold")
		if !apperrors.Is(err, apperrors.ErrRowNotFound) {
			t.Errorf("Expected ErrRowNotFound, got: %v", err)
		}
	})
}

func TestSetStatusPerTableSets(t *testing.T) {
	flow, _, _ := setupTestFlow(t)
	ctx := context.Background()

	testimonial, err := flow.Insert(ctx, models.TableTestimonials, &models.Testimonial{
		Author: "K. Mensah", Message: "Travail soigné", Rating: 5,
		Status: models.TestimonialPending,
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// "sold" is a property status, not a testimonial one.
	if _, err := flow.SetStatus(ctx, models.TableTestimonials, testimonial.RowID(), "sold"); !apperrors.Is(err, apperrors.ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus for cross-table status, got: %v", err)
	}

	updated, err := flow.SetStatus(ctx, models.TableTestimonials, testimonial.RowID(), "approved")
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if updated.RowStatus() != "approved" {
		t.Errorf("Expected status approved, got %s", updated.RowStatus())
	}
}

func TestStateReturnsToIdleAfterFailure(t *testing.T) {
	flow, _, _ := setupTestFlow(t)

	if flow.State() != StateIdle {
		t.Errorf("Expected idle state, got %s", flow.State())
	}

	invalid := validProperty()
	invalid.Title = ""
	flow.Insert(context.Background(), models.TableProperties, invalid)

	if flow.State() != StateIdle {
		t.Errorf("Flow stuck in %s after a failed mutation", flow.State())
	}
}
