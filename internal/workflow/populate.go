package workflow

import (
	"context"

	"github.com/erazemk/ponovno/internal/model"
)

// refCache memoizes item and user lookups while populating a listing.
type refCache struct {
	items map[int64]*model.Item
	users map[int64]*model.PublicUser
}

func newRefCache() *refCache {
	return &refCache{
		items: make(map[int64]*model.Item),
		users: make(map[int64]*model.PublicUser),
	}
}

// populate fills in the item, proposed item and participant references.
func (w *Workflow) populate(ctx context.Context, t *model.Transaction, refs *refCache) error {
	var err error
	if t.Item, err = w.item(ctx, t.ItemID, refs); err != nil {
		return err
	}
	if t.ProposedItemID != nil {
		if t.ProposedItem, err = w.item(ctx, *t.ProposedItemID, refs); err != nil {
			return err
		}
	}
	if t.Requester, err = w.user(ctx, t.RequesterID, refs); err != nil {
		return err
	}
	if t.Owner, err = w.user(ctx, t.OwnerID, refs); err != nil {
		return err
	}
	return nil
}

func (w *Workflow) item(ctx context.Context, id int64, refs *refCache) (*model.Item, error) {
	if item, ok := refs.items[id]; ok {
		return item, nil
	}
	item, err := w.Items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	refs.items[id] = item
	return item, nil
}

func (w *Workflow) user(ctx context.Context, id int64, refs *refCache) (*model.PublicUser, error) {
	if u, ok := refs.users[id]; ok {
		return u, nil
	}
	u, err := w.Users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	refs.users[id] = u.Public()
	return refs.users[id], nil
}
