package item

import (
	"strings"
	"time"

	"github.com/shareit-market/service-rental/internal/domain"
)

// Comment is feedback left on an item by a user who has completed a rental
// of it. authorName is denormalized for display and filled by the store on
// reads.
type Comment struct {
	id         int64
	text       string
	itemID     int64
	authorID   int64
	authorName string
	created    time.Time
}

// NewComment creates a new Comment with validated text.
func NewComment(itemID, authorID int64, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("comment text cannot be empty")
	}
	return &Comment{
		text:     text,
		itemID:   itemID,
		authorID: authorID,
		created:  time.Now().UTC(),
	}, nil
}

// ReconstructComment rebuilds a Comment from persistence data.
func ReconstructComment(id int64, text string, itemID, authorID int64, authorName string, created time.Time) *Comment {
	return &Comment{
		id:         id,
		text:       text,
		itemID:     itemID,
		authorID:   authorID,
		authorName: authorName,
		created:    created,
	}
}

func (c *Comment) ID() int64          { return c.id }
func (c *Comment) Text() string       { return c.text }
func (c *Comment) ItemID() int64      { return c.itemID }
func (c *Comment) AuthorID() int64    { return c.authorID }
func (c *Comment) AuthorName() string { return c.authorName }
func (c *Comment) Created() time.Time { return c.created }
