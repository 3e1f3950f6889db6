package application

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/shareit-market/service-rental/internal/domain"
	bookingDomain "github.com/shareit-market/service-rental/internal/domain/booking"
	itemDomain "github.com/shareit-market/service-rental/internal/domain/item"
	requestDomain "github.com/shareit-market/service-rental/internal/domain/request"
	userDomain "github.com/shareit-market/service-rental/internal/domain/user"
)

// In-memory repositories backing the service tests. They honor the same
// contracts as the gorm implementations: not-found errors, store-assigned
// ids and the documented result ordering.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*userDomain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int64]*userDomain.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", strconv.FormatInt(id, 10))
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*userDomain.User, 0, len(r.users))
	for id := int64(1); id < r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Save(_ context.Context, u *userDomain.User) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := userDomain.Reconstruct(r.nextID, u.Name(), u.Email(), u.CreatedAt(), u.UpdatedAt())
	r.users[r.nextID] = saved
	r.nextID++
	return saved, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID()]; !ok {
		return domain.NewNotFoundError("User", strconv.FormatInt(u.ID(), 10))
	}
	r.users[u.ID()] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.NewNotFoundError("User", strconv.FormatInt(id, 10))
	}
	delete(r.users, id)
	return nil
}

type fakeItemRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*itemDomain.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{nextID: 1, items: make(map[int64]*itemDomain.Item)}
}

func (r *fakeItemRepo) FindByID(_ context.Context, id int64) (*itemDomain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("Item", strconv.FormatInt(id, 10))
	}
	return i, nil
}

func (r *fakeItemRepo) FindByOwnerID(_ context.Context, ownerID int64, page, size int) ([]*itemDomain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var owned []*itemDomain.Item
	for id := int64(1); id < r.nextID; id++ {
		if i, ok := r.items[id]; ok && i.IsOwnedBy(ownerID) {
			owned = append(owned, i)
		}
	}
	return paginate(owned, page, size), nil
}

func (r *fakeItemRepo) FindByNameAndDescription(_ context.Context, name, description string) (*itemDomain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.items {
		if i.Name() == name && i.Description() == description {
			return i, nil
		}
	}
	return nil, nil
}

func (r *fakeItemRepo) FindByRequestIDs(_ context.Context, requestIDs []int64) ([]*itemDomain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[int64]bool, len(requestIDs))
	for _, id := range requestIDs {
		wanted[id] = true
	}
	var out []*itemDomain.Item
	for id := int64(1); id < r.nextID; id++ {
		if i, ok := r.items[id]; ok && i.RequestID() != nil && wanted[*i.RequestID()] {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) Search(_ context.Context, text string) ([]*itemDomain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	needle := strings.ToLower(text)
	var out []*itemDomain.Item
	for id := int64(1); id < r.nextID; id++ {
		i, ok := r.items[id]
		if !ok || !i.Available() {
			continue
		}
		if strings.Contains(strings.ToLower(i.Name()), needle) ||
			strings.Contains(strings.ToLower(i.Description()), needle) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) Save(_ context.Context, i *itemDomain.Item) (*itemDomain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := itemDomain.Reconstruct(r.nextID, i.OwnerID(), i.Name(), i.Description(), i.Available(), i.RequestID(), i.CreatedAt(), i.UpdatedAt())
	r.items[r.nextID] = saved
	r.nextID++
	return saved, nil
}

func (r *fakeItemRepo) Update(_ context.Context, i *itemDomain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[i.ID()]; !ok {
		return domain.NewNotFoundError("Item", strconv.FormatInt(i.ID(), 10))
	}
	r.items[i.ID()] = i
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]*bookingDomain.Booking
	items    *fakeItemRepo
}

func newFakeBookingRepo(items *fakeItemRepo) *fakeBookingRepo {
	return &fakeBookingRepo{nextID: 1, bookings: make(map[int64]*bookingDomain.Booking), items: items}
}

// snapshot mirrors the gorm repository, which reconstructs a fresh aggregate
// per load. Handing out the stored pointer would let callers mutate the
// store and defeat the version check in Update.
func snapshot(b *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.Reconstruct(b.ID(), b.ItemID(), b.BookerID(), b.Start(), b.End(), b.Status(), b.Version(), b.CreatedAt(), b.UpdatedAt())
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id int64) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", strconv.FormatInt(id, 10))
	}
	return snapshot(b), nil
}

func (r *fakeBookingRepo) FindByBookerID(_ context.Context, bookerID int64, page, size int) ([]*bookingDomain.Booking, error) {
	return r.collect(func(b *bookingDomain.Booking) bool { return b.IsBookedBy(bookerID) }, page, size), nil
}

func (r *fakeBookingRepo) FindByOwnerID(ctx context.Context, ownerID int64, page, size int) ([]*bookingDomain.Booking, error) {
	return r.collect(func(b *bookingDomain.Booking) bool {
		i, err := r.items.FindByID(ctx, b.ItemID())
		return err == nil && i.IsOwnedBy(ownerID)
	}, page, size), nil
}

func (r *fakeBookingRepo) FindApprovedByItemID(_ context.Context, itemID int64) ([]*bookingDomain.Booking, error) {
	return r.approved(func(b *bookingDomain.Booking) bool { return b.ItemID() == itemID }), nil
}

func (r *fakeBookingRepo) FindApprovedByItemIDs(_ context.Context, itemIDs []int64) ([]*bookingDomain.Booking, error) {
	wanted := make(map[int64]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	return r.approved(func(b *bookingDomain.Booking) bool { return wanted[b.ItemID()] }), nil
}

func (r *fakeBookingRepo) FindByItemAndBooker(_ context.Context, itemID, bookerID int64) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for id := int64(1); id < r.nextID; id++ {
		if b, ok := r.bookings[id]; ok && b.ItemID() == itemID && b.IsBookedBy(bookerID) {
			out = append(out, snapshot(b))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, b *bookingDomain.Booking) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := bookingDomain.Reconstruct(r.nextID, b.ItemID(), b.BookerID(), b.Start(), b.End(), b.Status(), b.Version(), b.CreatedAt(), b.UpdatedAt())
	r.bookings[r.nextID] = saved
	r.nextID++
	return snapshot(saved), nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.bookings[b.ID()]
	if !ok {
		return domain.NewNotFoundError("Booking", strconv.FormatInt(b.ID(), 10))
	}
	if current.Version() != b.Version()-1 {
		return domain.NewConflictError("booking was modified concurrently")
	}
	r.bookings[b.ID()] = snapshot(b)
	return nil
}

// collect returns bookings matching keep, sorted by start descending like
// the gorm listing queries.
func (r *fakeBookingRepo) collect(keep func(*bookingDomain.Booking) bool, page, size int) []*bookingDomain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for id := int64(1); id < r.nextID; id++ {
		if b, ok := r.bookings[id]; ok && keep(b) {
			out = append(out, snapshot(b))
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Start().After(out[i].Start()) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return paginate(out, page, size)
}

// approved returns approved bookings matching keep, sorted by start
// ascending like the gorm schedule queries.
func (r *fakeBookingRepo) approved(keep func(*bookingDomain.Booking) bool) []*bookingDomain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for id := int64(1); id < r.nextID; id++ {
		if b, ok := r.bookings[id]; ok && b.Status() == bookingDomain.StatusApproved && keep(b) {
			out = append(out, snapshot(b))
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[i].Start().After(out[j].Start()) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   int64
	comments map[int64]*itemDomain.Comment
	users    *fakeUserRepo
}

func newFakeCommentRepo(users *fakeUserRepo) *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1, comments: make(map[int64]*itemDomain.Comment), users: users}
}

func (r *fakeCommentRepo) FindByItemID(_ context.Context, itemID int64) ([]*itemDomain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*itemDomain.Comment
	for id := int64(1); id < r.nextID; id++ {
		if c, ok := r.comments[id]; ok && c.ItemID() == itemID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) FindByItemIDs(_ context.Context, itemIDs []int64) ([]*itemDomain.Comment, error) {
	wanted := make(map[int64]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*itemDomain.Comment
	for id := int64(1); id < r.nextID; id++ {
		if c, ok := r.comments[id]; ok && wanted[c.ItemID()] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) Save(ctx context.Context, c *itemDomain.Comment) (*itemDomain.Comment, error) {
	authorName := ""
	if u, err := r.users.FindByID(ctx, c.AuthorID()); err == nil {
		authorName = u.Name()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := itemDomain.ReconstructComment(r.nextID, c.Text(), c.ItemID(), c.AuthorID(), authorName, c.Created())
	r.comments[r.nextID] = saved
	r.nextID++
	return saved, nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	nextID   int64
	requests map[int64]*requestDomain.ItemRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{nextID: 1, requests: make(map[int64]*requestDomain.ItemRequest)}
}

func (r *fakeRequestRepo) FindByID(_ context.Context, id int64) (*requestDomain.ItemRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, domain.NewNotFoundError("ItemRequest", strconv.FormatInt(id, 10))
	}
	return req, nil
}

func (r *fakeRequestRepo) FindByRequestorID(_ context.Context, requestorID int64) ([]*requestDomain.ItemRequest, error) {
	return r.collect(func(req *requestDomain.ItemRequest) bool { return req.RequestorID() == requestorID }, 0, 0), nil
}

func (r *fakeRequestRepo) FindAllExcludingRequestor(_ context.Context, requestorID int64, page, size int) ([]*requestDomain.ItemRequest, error) {
	return r.collect(func(req *requestDomain.ItemRequest) bool { return req.RequestorID() != requestorID }, page, size), nil
}

func (r *fakeRequestRepo) Save(_ context.Context, req *requestDomain.ItemRequest) (*requestDomain.ItemRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := requestDomain.Reconstruct(r.nextID, req.Description(), req.RequestorID(), req.Created())
	r.requests[r.nextID] = saved
	r.nextID++
	return saved, nil
}

// collect returns matching requests newest first. size == 0 disables
// pagination.
func (r *fakeRequestRepo) collect(keep func(*requestDomain.ItemRequest) bool, page, size int) []*requestDomain.ItemRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*requestDomain.ItemRequest
	for id := r.nextID - 1; id >= 1; id-- {
		if req, ok := r.requests[id]; ok && keep(req) {
			out = append(out, req)
		}
	}
	if size == 0 {
		return out
	}
	return paginate(out, page, size)
}

func paginate[T any](all []T, page, size int) []T {
	start := page * size
	if start >= len(all) {
		return nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

// capturingPublisher records published events for assertions.
type capturingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Topic     string
	EventType string
	Key       string
	Data      interface{}
}

func (p *capturingPublisher) Publish(_ context.Context, topic, eventType, key string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, EventType: eventType, Key: key, Data: data})
	return nil
}

func (p *capturingPublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

// mapCache is an in-process SearchCache for tests.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	flushes int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.sets++
}

func (c *mapCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
	c.flushes++
}
