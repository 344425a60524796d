// Package workflow implements the negotiation between a requester and an
// item's owner: requests are created against active items and move through
// pending, accepted, rejected, cancelled and completed.
package workflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/ponovno/internal/apperr"
	"github.com/erazemk/ponovno/internal/model"
	"github.com/erazemk/ponovno/internal/store"
)

// Items is the part of the item catalog the workflow depends on.
type Items interface {
	Get(ctx context.Context, id int64) (*model.Item, error)
	Deactivate(ctx context.Context, id int64) error
}

// Users resolves user references.
type Users interface {
	Get(ctx context.Context, id int64) (*model.User, error)
}

// ErrPartialCompletion is returned by Complete when the transaction was
// marked completed but its item could not be deactivated.
var ErrPartialCompletion = errors.New("transaction completed but item still active")

// Workflow creates and transitions transactions.
type Workflow struct {
	DB          *sql.DB
	Items       Items
	Users       Users
	Transitions model.Transitions

	locks keyedMutex
}

// CreateInput holds the fields of a new request.
type CreateInput struct {
	ItemID         int64    `json:"item_id"`
	Message        string   `json:"message"`
	OfferedPrice   *float64 `json:"offered_price"`
	ProposedItemID *int64   `json:"proposed_item_id"`
	ContactEmail   string   `json:"contact_email"`
}

// Create opens a pending request by actorID against an active item they do
// not own.
func (w *Workflow) Create(ctx context.Context, actorID int64, in CreateInput) (*model.Transaction, error) {
	message := strings.TrimSpace(in.Message)
	if in.ItemID == 0 || message == "" {
		return nil, apperr.Validation("item_id and message are required")
	}

	item, err := w.Items.Get(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.Active {
		return nil, apperr.NotFound("item")
	}
	if item.OwnerID == actorID {
		return nil, apperr.InvalidOperation("cannot request your own item")
	}
	if in.OfferedPrice != nil && *in.OfferedPrice <= 0 {
		return nil, apperr.InvalidOperation("offered_price must be positive")
	}
	if in.ProposedItemID != nil {
		if _, err := w.Items.Get(ctx, *in.ProposedItemID); err != nil {
			return nil, err
		}
	}

	// Items never change owner, so the copied owner stays accurate.
	t, err := store.CreateTransaction(ctx, w.DB, &model.Transaction{
		ItemID:         item.ID,
		RequesterID:    actorID,
		OwnerID:        item.OwnerID,
		Message:        message,
		OfferedPrice:   in.OfferedPrice,
		ProposedItemID: in.ProposedItemID,
		ContactEmail:   strings.TrimSpace(in.ContactEmail),
	})
	if err != nil {
		return nil, err
	}

	slog.Info("transaction created",
		"transaction_id", t.ID, "item_id", t.ItemID, "requester_id", actorID, "owner_id", t.OwnerID)

	if err := w.populate(ctx, t, newRefCache()); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns one page of transactions actorID takes part in.
func (w *Workflow) List(ctx context.Context, actorID int64, f model.TransactionFilter) (*model.TransactionPage, error) {
	switch f.Direction {
	case "", model.DirectionIncoming, model.DirectionOutgoing:
	default:
		return nil, apperr.InvalidOperation("direction must be incoming or outgoing")
	}
	if f.Status != "" && !model.ValidStatus(f.Status) {
		return nil, apperr.InvalidOperation("unknown status " + f.Status)
	}
	f.Page, f.Limit = model.NormalizePage(f.Page, f.Limit)

	page := &model.TransactionPage{Requests: []model.Transaction{}, Page: f.Page, Limit: f.Limit}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := store.ListTransactions(gctx, w.DB, actorID, f)
		if list != nil {
			page.Requests = list
		}
		return err
	})
	g.Go(func() error {
		total, err := store.CountTransactions(gctx, w.DB, actorID, f)
		page.Total = total
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	refs := newRefCache()
	for i := range page.Requests {
		if err := w.populate(ctx, &page.Requests[i], refs); err != nil {
			return nil, err
		}
	}
	return page, nil
}

// Get returns a transaction visible to actorID.
func (w *Workflow) Get(ctx context.Context, id, actorID int64) (*model.Transaction, error) {
	t, err := w.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !participant(t, actorID) {
		return nil, apperr.Forbidden("not a participant in this transaction")
	}

	if err := w.populate(ctx, t, newRefCache()); err != nil {
		return nil, err
	}
	return t, nil
}

// Respond lets the owner move a transaction to a new status, optionally
// leaving a note. A nil or blank note keeps the existing one.
func (w *Workflow) Respond(ctx context.Context, id, actorID int64, status string, note *string) (*model.Transaction, error) {
	if !model.IsResponseStatus(status) {
		return nil, apperr.Validation("status must be one of accepted, rejected, cancelled, completed")
	}

	unlock := w.locks.Lock(id)
	defer unlock()

	t, err := w.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != actorID {
		return nil, apperr.Forbidden("only the item owner can respond")
	}
	if err := w.transition(t, status); err != nil {
		return nil, err
	}

	if note != nil {
		trimmed := strings.TrimSpace(*note)
		note = &trimmed
		if trimmed == "" {
			note = nil
		}
	}
	if err := store.UpdateTransactionStatus(ctx, w.DB, id, status, note); err != nil {
		return nil, err
	}

	slog.Info("transaction responded", "transaction_id", id, "owner_id", actorID, "from", t.Status, "to", status)
	return w.reload(ctx, id)
}

// Cancel lets either participant cancel a transaction.
func (w *Workflow) Cancel(ctx context.Context, id, actorID int64) (*model.Transaction, error) {
	unlock := w.locks.Lock(id)
	defer unlock()

	t, err := w.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !participant(t, actorID) {
		return nil, apperr.Forbidden("not a participant in this transaction")
	}
	if err := w.transition(t, model.StatusCancelled); err != nil {
		return nil, err
	}

	if err := store.UpdateTransactionStatus(ctx, w.DB, id, model.StatusCancelled, nil); err != nil {
		return nil, err
	}

	slog.Info("transaction cancelled", "transaction_id", id, "actor_id", actorID, "from", t.Status)
	return w.reload(ctx, id)
}

// Complete lets either participant complete a transaction and then takes the
// item off the market. The two writes are not atomic: if deactivation fails
// the transaction stays completed and ErrPartialCompletion is returned.
func (w *Workflow) Complete(ctx context.Context, id, actorID int64) (*model.Transaction, error) {
	unlock := w.locks.Lock(id)
	defer unlock()

	t, err := w.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !participant(t, actorID) {
		return nil, apperr.Forbidden("not a participant in this transaction")
	}
	if err := w.transition(t, model.StatusCompleted); err != nil {
		return nil, err
	}

	if err := store.UpdateTransactionStatus(ctx, w.DB, id, model.StatusCompleted, nil); err != nil {
		return nil, err
	}

	if err := w.Items.Deactivate(ctx, t.ItemID); err != nil {
		slog.Error("item deactivation failed after completion",
			"transaction_id", id, "item_id", t.ItemID, "error", err)
		return nil, fmt.Errorf("%w: transaction %d, item %d: %v", ErrPartialCompletion, id, t.ItemID, err)
	}

	slog.Info("transaction completed", "transaction_id", id, "actor_id", actorID, "item_id", t.ItemID)
	return w.reload(ctx, id)
}

func (w *Workflow) transition(t *model.Transaction, to string) error {
	if !w.Transitions.Allowed(t.Status, to) {
		return apperr.InvalidOperation(fmt.Sprintf("cannot change status from %s to %s", t.Status, to))
	}
	return nil
}

func (w *Workflow) load(ctx context.Context, id int64) (*model.Transaction, error) {
	t, err := store.GetTransaction(ctx, w.DB, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("transaction")
	}
	return t, nil
}

func (w *Workflow) reload(ctx context.Context, id int64) (*model.Transaction, error) {
	t, err := w.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := w.populate(ctx, t, newRefCache()); err != nil {
		return nil, err
	}
	return t, nil
}

func participant(t *model.Transaction, actorID int64) bool {
	return t.RequesterID == actorID || t.OwnerID == actorID
}
