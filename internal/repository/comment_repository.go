package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	itemDomain "github.com/shareit-market/service-rental/internal/domain/item"
)

// CommentModel is the GORM model for the comments table.
type CommentModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Text      string    `gorm:"not null;size:1000"`
	ItemID    int64     `gorm:"index;not null"`
	AuthorID  int64     `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CommentModel) TableName() string {
	return "comments"
}

// commentRow carries a comment joined with its author's display name.
type commentRow struct {
	CommentModel
	AuthorName string
}

// GormCommentRepository is the GORM-based implementation of the comment
// repository.
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository.
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// FindByItemID retrieves all comments on one item, author names included.
func (r *GormCommentRepository) FindByItemID(ctx context.Context, itemID int64) ([]*itemDomain.Comment, error) {
	var rows []commentRow
	if err := r.db.WithContext(ctx).
		Model(&CommentModel{}).
		Select("comments.*, users.name AS author_name").
		Joins("JOIN users ON users.id = comments.author_id").
		Where("comments.item_id = ?", itemID).
		Order("comments.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find comments by item: %w", err)
	}
	return toDomainComments(rows), nil
}

// FindByItemIDs retrieves all comments on a batch of items.
func (r *GormCommentRepository) FindByItemIDs(ctx context.Context, itemIDs []int64) ([]*itemDomain.Comment, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var rows []commentRow
	if err := r.db.WithContext(ctx).
		Model(&CommentModel{}).
		Select("comments.*, users.name AS author_name").
		Joins("JOIN users ON users.id = comments.author_id").
		Where("comments.item_id IN ?", itemIDs).
		Order("comments.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find comments by items: %w", err)
	}
	return toDomainComments(rows), nil
}

// Save persists a new comment and returns it with its assigned id and the
// author's name.
func (r *GormCommentRepository) Save(ctx context.Context, c *itemDomain.Comment) (*itemDomain.Comment, error) {
	model := &CommentModel{
		Text:      c.Text(),
		ItemID:    c.ItemID(),
		AuthorID:  c.AuthorID(),
		CreatedAt: c.Created(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	var authorName string
	if err := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Select("name").
		Where("id = ?", c.AuthorID()).
		Scan(&authorName).Error; err != nil {
		return nil, fmt.Errorf("failed to load comment author: %w", err)
	}

	return itemDomain.ReconstructComment(model.ID, model.Text, model.ItemID, model.AuthorID, authorName, model.CreatedAt), nil
}

func toDomainComments(rows []commentRow) []*itemDomain.Comment {
	comments := make([]*itemDomain.Comment, len(rows))
	for i, row := range rows {
		comments[i] = itemDomain.ReconstructComment(
			row.ID,
			row.Text,
			row.ItemID,
			row.AuthorID,
			row.AuthorName,
			row.CreatedAt,
		)
	}
	return comments
}
