// Package catalog owns marketplace items: their lifecycle, images, listing
// and moderation reports.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/ponovno/internal/apperr"
	"github.com/erazemk/ponovno/internal/imaging"
	"github.com/erazemk/ponovno/internal/model"
	"github.com/erazemk/ponovno/internal/store"
)

// Catalog manages items.
type Catalog struct {
	DB     *sql.DB
	Images imaging.Processor
}

// ItemInput holds the fields of a new item.
type ItemInput struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	Condition       string  `json:"condition"`
	TransactionType string  `json:"transaction_type"`
	Price           float64 `json:"price"`
	Location        string  `json:"location"`
}

// ItemPatch holds the fields of an item update. Nil fields are left
// unchanged.
type ItemPatch struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	Category        *string  `json:"category"`
	Condition       *string  `json:"condition"`
	TransactionType *string  `json:"transaction_type"`
	Price           *float64 `json:"price"`
	Location        *string  `json:"location"`
}

// ReportInput holds a moderation report.
type ReportInput struct {
	ItemID        int64  `json:"item_id"`
	ReporterEmail string `json:"reporter_email"`
	Reason        string `json:"reason"`
}

// Create publishes a new active item owned by ownerID.
func (c *Catalog) Create(ctx context.Context, in ItemInput, ownerID int64) (*model.Item, error) {
	item := &model.Item{
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		Category:        strings.TrimSpace(in.Category),
		Condition:       in.Condition,
		TransactionType: in.TransactionType,
		Price:           in.Price,
		Location:        strings.TrimSpace(in.Location),
		OwnerID:         ownerID,
	}
	if item.Condition == "" {
		item.Condition = model.ConditionGood
	}

	if item.Title == "" || item.Category == "" || item.TransactionType == "" {
		return nil, apperr.Validation("title, category and transaction_type are required")
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}
	if item.TransactionType != model.TypeSale {
		item.Price = 0
	}

	created, err := store.CreateItem(ctx, c.DB, item)
	if err != nil {
		return nil, err
	}

	slog.Info("item created", "item_id", created.ID, "owner_id", ownerID, "type", created.TransactionType)
	return created, nil
}

// Update applies a patch to an item owned by actorID.
func (c *Catalog) Update(ctx context.Context, id int64, patch ItemPatch, actorID int64) (*model.Item, error) {
	item, err := c.owned(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		item.Title = strings.TrimSpace(*patch.Title)
		if item.Title == "" {
			return nil, apperr.Validation("title cannot be empty")
		}
	}
	if patch.Description != nil {
		item.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Category != nil {
		item.Category = strings.TrimSpace(*patch.Category)
		if item.Category == "" {
			return nil, apperr.Validation("category cannot be empty")
		}
	}
	if patch.Condition != nil {
		item.Condition = *patch.Condition
	}
	if patch.TransactionType != nil {
		item.TransactionType = *patch.TransactionType
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.Location != nil {
		item.Location = strings.TrimSpace(*patch.Location)
	}

	if err := validateItem(item); err != nil {
		return nil, err
	}

	if err := store.UpdateItem(ctx, c.DB, item); err != nil {
		return nil, err
	}

	slog.Info("item updated", "item_id", id, "owner_id", actorID)
	return store.GetItem(ctx, c.DB, id)
}

// SoftDelete deactivates an item owned by actorID. Deleting an already
// inactive item succeeds.
func (c *Catalog) SoftDelete(ctx context.Context, id, actorID int64) error {
	if _, err := c.owned(ctx, id, actorID); err != nil {
		return err
	}
	if err := c.Deactivate(ctx, id); err != nil {
		return err
	}

	slog.Info("item deleted", "item_id", id, "owner_id", actorID)
	return nil
}

// Deactivate marks an item inactive without any ownership check.
func (c *Catalog) Deactivate(ctx context.Context, id int64) error {
	return store.DeactivateItem(ctx, c.DB, id)
}

// Get returns an item whether or not it is active.
func (c *Catalog) Get(ctx context.Context, id int64) (*model.Item, error) {
	item, err := store.GetItem(ctx, c.DB, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("item")
	}
	return item, nil
}

// List returns one page of active items. The page and the total count are
// queried concurrently.
func (c *Catalog) List(ctx context.Context, f model.ItemFilter) (*model.ItemPage, error) {
	f.Query = strings.TrimSpace(f.Query)
	f.Page, f.Limit = model.NormalizePage(f.Page, f.Limit)
	if f.Sort != model.SortOldest {
		f.Sort = model.SortNewest
	}

	page := &model.ItemPage{Items: []model.Item{}, Page: f.Page, Limit: f.Limit}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := store.ListItems(gctx, c.DB, f)
		if items != nil {
			page.Items = items
		}
		return err
	})
	g.Go(func() error {
		total, err := store.CountItems(gctx, c.DB, f)
		page.Total = total
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return page, nil
}

// SetImage replaces the image of an item owned by actorID.
func (c *Catalog) SetImage(ctx context.Context, id, actorID int64, r io.Reader) (*model.Item, error) {
	if _, err := c.owned(ctx, id, actorID); err != nil {
		return nil, err
	}

	img, err := c.Images.Process(r)
	if errors.Is(err, imaging.ErrInvalidImage) {
		return nil, apperr.Validation(err.Error())
	}
	if err != nil {
		return nil, err
	}

	ref := fmt.Sprintf("/api/items/%d/image", id)
	if err := store.SetItemImage(ctx, c.DB, id, img.Data, img.MIME, ref); err != nil {
		return nil, err
	}

	slog.Info("item image uploaded", "item_id", id, "bytes", len(img.Data))
	return store.GetItem(ctx, c.DB, id)
}

// Image returns an item's uploaded image.
func (c *Catalog) Image(ctx context.Context, id int64) (*imaging.Image, error) {
	data, mime, err := store.GetItemImage(ctx, c.DB, id)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, apperr.NotFound("image")
	}
	return &imaging.Image{Data: data, MIME: mime}, nil
}

// Report files a moderation report against an item.
func (c *Catalog) Report(ctx context.Context, in ReportInput) (*model.Report, error) {
	email := strings.TrimSpace(in.ReporterEmail)
	reason := strings.TrimSpace(in.Reason)
	if email == "" || reason == "" {
		return nil, apperr.Validation("reporter_email and reason are required")
	}

	if _, err := c.Get(ctx, in.ItemID); err != nil {
		return nil, err
	}

	report, err := store.CreateReport(ctx, c.DB, &model.Report{
		ItemID:        in.ItemID,
		ReporterEmail: email,
		Reason:        reason,
	})
	if err != nil {
		return nil, err
	}

	slog.Warn("item reported", "item_id", in.ItemID, "report_id", report.ID)
	return report, nil
}

// owned loads an item and checks that actorID owns it.
func (c *Catalog) owned(ctx context.Context, id, actorID int64) (*model.Item, error) {
	item, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != actorID {
		return nil, apperr.Forbidden("only the owner can modify this item")
	}
	return item, nil
}

func validateItem(item *model.Item) error {
	if !model.ValidCondition(item.Condition) {
		return apperr.Validation("condition must be one of new, good, used")
	}
	if !model.ValidTransactionType(item.TransactionType) {
		return apperr.Validation("transaction_type must be one of exchange, donation, sale")
	}
	if item.Price < 0 {
		return apperr.Validation("price cannot be negative")
	}
	return nil
}
