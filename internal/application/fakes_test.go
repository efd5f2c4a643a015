package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/shareit-team/shareit-server/internal/domain/booking"
	itemDomain "github.com/shareit-team/shareit-server/internal/domain/item"
	requestDomain "github.com/shareit-team/shareit-server/internal/domain/request"
	userDomain "github.com/shareit-team/shareit-server/internal/domain/user"
	"github.com/shareit-team/shareit-server/pkg/domain"
	"github.com/shareit-team/shareit-server/pkg/kafka"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// --- Transactor ---

type fakeTx struct{ calls int }

func (f *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// --- Publisher ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
	topics []string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// --- Users ---

type fakeUsers struct {
	nextID int64
	users  map[int64]*userDomain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[int64]*userDomain.User{}}
}

func (f *fakeUsers) add(name, email string) *userDomain.User {
	u, err := userDomain.NewUser(name, email)
	if err != nil {
		panic(err)
	}
	saved, err := f.Save(context.Background(), u)
	if err != nil {
		panic(err)
	}
	return saved
}

func (f *fakeUsers) FindByID(_ context.Context, id int64) (*userDomain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", id)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindAll(context.Context) ([]*userDomain.User, error) {
	out := make([]*userDomain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (f *fakeUsers) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUsers) emailTaken(email string, except int64) bool {
	for id, u := range f.users {
		if id != except && strings.EqualFold(u.Email(), email) {
			return true
		}
	}
	return false
}

func (f *fakeUsers) Save(_ context.Context, u *userDomain.User) (*userDomain.User, error) {
	if f.emailTaken(u.Email(), 0) {
		return nil, domain.NewAlreadyExistsError("User with email " + u.Email() + " already exists")
	}
	f.nextID++
	saved := userDomain.Reconstruct(f.nextID, u.Name(), u.Email(), u.CreatedAt(), u.UpdatedAt())
	f.users[saved.ID()] = saved
	return saved, nil
}

func (f *fakeUsers) Update(_ context.Context, u *userDomain.User) error {
	if _, ok := f.users[u.ID()]; !ok {
		return domain.NewNotFoundError("User", u.ID())
	}
	if f.emailTaken(u.Email(), u.ID()) {
		return domain.NewAlreadyExistsError("User with email " + u.Email() + " already exists")
	}
	f.users[u.ID()] = u
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return domain.NewNotFoundError("User", id)
	}
	delete(f.users, id)
	return nil
}

// --- Items ---

type fakeItems struct {
	nextID int64
	items  map[int64]*itemDomain.Item
}

func newFakeItems() *fakeItems {
	return &fakeItems{items: map[int64]*itemDomain.Item{}}
}

func (f *fakeItems) add(ownerID int64, name string, available bool, requestID *int64) *itemDomain.Item {
	it, err := itemDomain.NewItem(ownerID, name, name+" for rent", &available, requestID)
	if err != nil {
		panic(err)
	}
	saved, _ := f.Save(context.Background(), it)
	return saved
}

func (f *fakeItems) sorted(keep func(*itemDomain.Item) bool) []*itemDomain.Item {
	var out []*itemDomain.Item
	for _, it := range f.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (f *fakeItems) FindByID(_ context.Context, id int64) (*itemDomain.Item, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("Item", id)
	}
	return it, nil
}

func (f *fakeItems) FindByOwnerID(_ context.Context, ownerID int64, page domain.Page) ([]*itemDomain.Item, error) {
	return domain.Slice(f.sorted(func(it *itemDomain.Item) bool { return it.OwnerID() == ownerID }), page), nil
}

func (f *fakeItems) Search(_ context.Context, text string, page domain.Page) ([]*itemDomain.Item, error) {
	text = strings.ToLower(text)
	return domain.Slice(f.sorted(func(it *itemDomain.Item) bool {
		return it.IsAvailable() &&
			(strings.Contains(strings.ToLower(it.Name()), text) || strings.Contains(strings.ToLower(it.Description()), text))
	}), page), nil
}

func (f *fakeItems) FindByRequestIDs(_ context.Context, requestIDs []int64) ([]*itemDomain.Item, error) {
	want := map[int64]bool{}
	for _, id := range requestIDs {
		want[id] = true
	}
	return f.sorted(func(it *itemDomain.Item) bool {
		return it.RequestID() != nil && want[*it.RequestID()]
	}), nil
}

func (f *fakeItems) Save(_ context.Context, it *itemDomain.Item) (*itemDomain.Item, error) {
	f.nextID++
	saved := itemDomain.Reconstruct(f.nextID, it.OwnerID(), it.Name(), it.Description(), it.IsAvailable(),
		it.RequestID(), it.Version(), it.CreatedAt(), it.UpdatedAt())
	f.items[saved.ID()] = saved
	return saved, nil
}

func (f *fakeItems) Update(_ context.Context, it *itemDomain.Item) error {
	f.items[it.ID()] = it
	return nil
}

// --- Comments ---

type fakeComments struct {
	nextID   int64
	comments []*itemDomain.Comment
}

func (f *fakeComments) Save(_ context.Context, c *itemDomain.Comment) (*itemDomain.Comment, error) {
	f.nextID++
	saved := itemDomain.ReconstructComment(f.nextID, c.ItemID(), c.AuthorID(), c.AuthorName(), c.Text(), c.CreatedAt())
	f.comments = append(f.comments, saved)
	return saved, nil
}

func (f *fakeComments) FindByItemIDs(_ context.Context, itemIDs []int64) ([]*itemDomain.Comment, error) {
	want := map[int64]bool{}
	for _, id := range itemIDs {
		want[id] = true
	}
	var out []*itemDomain.Comment
	for _, c := range f.comments {
		if want[c.ItemID()] {
			out = append(out, c)
		}
	}
	return out, nil
}

// --- Bookings ---

// fakeBookings stores copies so that in-place mutations are only visible after Update.
type fakeBookings struct {
	nextID   int64
	bookings map[int64]bookingDomain.Booking
	locks    int
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{bookings: map[int64]bookingDomain.Booking{}}
}

func (f *fakeBookings) add(bk *bookingDomain.Booking) *bookingDomain.Booking {
	saved, _ := f.Save(context.Background(), bk)
	return saved
}

func (f *fakeBookings) all() []*bookingDomain.Booking {
	out := make([]*bookingDomain.Booking, 0, len(f.bookings))
	for _, bk := range f.bookings {
		cp := bk
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (f *fakeBookings) FindByID(_ context.Context, id int64) (*bookingDomain.Booking, error) {
	bk, ok := f.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id)
	}
	return &bk, nil
}

func (f *fakeBookings) FindByIDForUpdate(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	f.locks++
	return f.FindByID(ctx, id)
}

func (f *fakeBookings) List(_ context.Context, q bookingDomain.Query, page domain.Page) ([]*bookingDomain.Booking, error) {
	var matched []*bookingDomain.Booking
	for _, bk := range f.all() {
		if q.Matches(bk) {
			matched = append(matched, bk)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Start().Equal(matched[j].Start()) {
			return matched[i].ID() > matched[j].ID()
		}
		return matched[i].Start().After(matched[j].Start())
	})
	return domain.Slice(matched, page), nil
}

func (f *fakeBookings) FindApprovedByItemIDs(_ context.Context, itemIDs []int64) ([]*bookingDomain.Booking, error) {
	want := map[int64]bool{}
	for _, id := range itemIDs {
		want[id] = true
	}
	var out []*bookingDomain.Booking
	for _, bk := range f.all() {
		if want[bk.ItemID()] && bk.Status() == bookingDomain.StatusApproved {
			out = append(out, bk)
		}
	}
	return out, nil
}

func (f *fakeBookings) ExistsFinishedApproved(_ context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	for _, bk := range f.all() {
		if bk.ItemID() == itemID && bk.BookerID() == bookerID &&
			bk.Status() == bookingDomain.StatusApproved && bk.End().Before(now) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookings) Save(_ context.Context, bk *bookingDomain.Booking) (*bookingDomain.Booking, error) {
	f.nextID++
	saved := bookingDomain.ReconstructBooking(f.nextID, bk.Start(), bk.End(), bk.Item(), bk.Booker(),
		bk.Status(), bk.Version(), bk.CreatedAt(), bk.UpdatedAt())
	f.bookings[saved.ID()] = *saved
	return saved, nil
}

func (f *fakeBookings) Update(_ context.Context, bk *bookingDomain.Booking) error {
	stored, ok := f.bookings[bk.ID()]
	if !ok || stored.Version() != bk.Version()-1 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	f.bookings[bk.ID()] = *bk
	return nil
}

// --- Item requests ---

type fakeRequests struct {
	nextID   int64
	requests map[int64]*requestDomain.ItemRequest
}

func newFakeRequests() *fakeRequests {
	return &fakeRequests{requests: map[int64]*requestDomain.ItemRequest{}}
}

func (f *fakeRequests) newestFirst(keep func(*requestDomain.ItemRequest) bool) []*requestDomain.ItemRequest {
	var out []*requestDomain.ItemRequest
	for _, r := range f.requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out
}

func (f *fakeRequests) FindByID(_ context.Context, id int64) (*requestDomain.ItemRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, domain.NewNotFoundError("ItemRequest", id)
	}
	return r, nil
}

func (f *fakeRequests) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.requests[id]
	return ok, nil
}

func (f *fakeRequests) FindByRequestorID(_ context.Context, requestorID int64) ([]*requestDomain.ItemRequest, error) {
	return f.newestFirst(func(r *requestDomain.ItemRequest) bool { return r.RequestorID() == requestorID }), nil
}

func (f *fakeRequests) FindOthers(_ context.Context, userID int64, page domain.Page) ([]*requestDomain.ItemRequest, error) {
	return domain.Slice(f.newestFirst(func(r *requestDomain.ItemRequest) bool { return r.RequestorID() != userID }), page), nil
}

func (f *fakeRequests) Save(_ context.Context, r *requestDomain.ItemRequest) (*requestDomain.ItemRequest, error) {
	f.nextID++
	saved := requestDomain.Reconstruct(f.nextID, r.RequestorID(), r.Description(), r.CreatedAt())
	f.requests[saved.ID()] = saved
	return saved, nil
}

// --- Fixture ---

type fixture struct {
	users     *fakeUsers
	items     *fakeItems
	comments  *fakeComments
	bookings  *fakeBookings
	requests  *fakeRequests
	tx        *fakeTx
	publisher *recordingPublisher

	bookingService *BookingService
	itemService    *ItemService
	userService    *UserService
	requestService *RequestService
}

func newFixture() *fixture {
	f := &fixture{
		users:     newFakeUsers(),
		items:     newFakeItems(),
		comments:  &fakeComments{},
		bookings:  newFakeBookings(),
		requests:  newFakeRequests(),
		tx:        &fakeTx{},
		publisher: &recordingPublisher{},
	}
	log := zap.NewNop()

	f.bookingService = NewBookingService(f.bookings, f.users, f.items, f.tx, f.publisher, log)
	f.bookingService.now = fixedClock
	f.itemService = NewItemService(f.items, f.comments, f.bookings, f.users, f.requests, f.publisher, log)
	f.itemService.now = fixedClock
	f.userService = NewUserService(f.users, f.publisher, log)
	f.requestService = NewRequestService(f.requests, f.items, f.users, log)
	f.requestService.now = fixedClock
	return f
}

// seedBooking stores a booking with an arbitrary window and status, bypassing creation rules.
func (f *fixture) seedBooking(it *itemDomain.Item, booker *userDomain.User, start, end time.Time, status bookingDomain.BookingStatus) *bookingDomain.Booking {
	return f.bookings.add(bookingDomain.ReconstructBooking(0, start, end, it, booker, status, 1, testNow, testNow))
}
