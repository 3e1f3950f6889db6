package item

import "context"

// Repository defines the persistence contract for items.
type Repository interface {
	// FindByID retrieves an item by its identifier.
	FindByID(ctx context.Context, id int64) (*Item, error)

	// FindByOwnerID retrieves one page of the items listed by one owner
	// ordered by id ascending.
	FindByOwnerID(ctx context.Context, ownerID int64, page, size int) ([]*Item, error)

	// FindByNameAndDescription retrieves the item matching both fields
	// exactly, or nil when none exists. Used as the duplicate-listing guard.
	FindByNameAndDescription(ctx context.Context, name, description string) (*Item, error)

	// FindByRequestIDs retrieves the items fulfilling any of the given
	// item-requests.
	FindByRequestIDs(ctx context.Context, requestIDs []int64) ([]*Item, error)

	// Search retrieves available items whose name or description contains
	// the text, case-insensitively.
	Search(ctx context.Context, text string) ([]*Item, error)

	// Save persists a new item and returns it with its assigned id.
	Save(ctx context.Context, i *Item) (*Item, error)

	// Update persists changes to an existing item.
	Update(ctx context.Context, i *Item) error
}

// CommentRepository defines the persistence contract for item comments.
type CommentRepository interface {
	// FindByItemID retrieves all comments on one item, author names included.
	FindByItemID(ctx context.Context, itemID int64) ([]*Comment, error)

	// FindByItemIDs retrieves all comments on a batch of items.
	FindByItemIDs(ctx context.Context, itemIDs []int64) ([]*Comment, error)

	// Save persists a new comment and returns it with its assigned id and
	// author name.
	Save(ctx context.Context, c *Comment) (*Comment, error)
}
