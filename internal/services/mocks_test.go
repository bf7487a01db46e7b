package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"eventful/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID      map[string]*domain.Event
	attendees map[string]map[string]bool // eventID -> userID
	getCalls  int
	listCalls int
	createErr error
	updateErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:      make(map[string]*domain.Event),
		attendees: make(map[string]map[string]bool),
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Title == e.Title {
			return domain.ErrDuplicateTitle
		}
	}
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.getCalls++
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	cp.AttendeeIDs = nil
	for uid := range f.attendees[id] {
		cp.AttendeeIDs = append(cp.AttendeeIDs, uid)
	}
	return &cp, nil
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int, error) {
	f.listCalls++
	var matched []*domain.Event
	for _, e := range f.byID {
		if filter.Title != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(filter.Title)) {
			continue
		}
		cp := *e
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch filter.SortBy {
		case domain.SortByTitle:
			less = matched[i].Title < matched[j].Title
		case domain.SortByOrganizer:
			less = matched[i].CreatorName < matched[j].CreatorName
		default:
			less = matched[i].DateTime.Before(matched[j].DateTime)
		}
		if filter.SortDesc {
			return !less
		}
		return less
	})
	total := len(matched)
	offset := filter.Page.Offset()
	if offset > total {
		offset = total
	}
	end := offset + filter.Page.Limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Title != nil {
		for otherID, other := range f.byID {
			if otherID != id && other.Title == *patch.Title {
				return nil, domain.ErrDuplicateTitle
			}
		}
		e.Title = *patch.Title
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.Time != nil {
		e.Time = *patch.Time
	}
	if patch.DateTime != nil {
		e.DateTime = *patch.DateTime
	}
	if patch.Location != nil {
		e.Location = *patch.Location
	}
	if patch.CategoryID != nil {
		e.CategoryID = *patch.CategoryID
	}
	if patch.ReminderAt != nil {
		e.ReminderAt = *patch.ReminderAt
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	delete(f.attendees, id)
	return nil
}

func (f *fakeEventRepo) AddAttendee(ctx context.Context, eventID, userID string) error {
	if f.attendees[eventID] == nil {
		f.attendees[eventID] = make(map[string]bool)
	}
	if f.attendees[eventID][userID] {
		return domain.ErrAlreadyRegistered
	}
	f.attendees[eventID][userID] = true
	return nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID       map[string]*domain.User
	registered map[string]map[string]bool // userID -> eventID
	events     *fakeEventRepo             // resolves registered events; may be nil
	createErr  error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:       make(map[string]*domain.User),
		registered: make(map[string]map[string]bool),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	cp.EventIDs = nil
	for eid := range f.registered[id] {
		cp.EventIDs = append(cp.EventIDs, eid)
	}
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) AddRegisteredEvent(ctx context.Context, userID, eventID string) error {
	if f.registered[userID] == nil {
		f.registered[userID] = make(map[string]bool)
	}
	if f.registered[userID][eventID] {
		return domain.ErrAlreadyRegistered
	}
	f.registered[userID][eventID] = true
	return nil
}

func (f *fakeUserRepo) ListRegisteredEvents(ctx context.Context, userID string) ([]*domain.Event, error) {
	var out []*domain.Event
	for eid := range f.registered[userID] {
		if f.events == nil {
			continue
		}
		if e, ok := f.events.byID[eid]; ok {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) addUser(id, email string) *domain.User {
	u := &domain.User{ID: id, Name: "User " + id, Email: email, Role: domain.RoleEventee}
	f.byID[id] = u
	return u
}

// fakeTicketRepo is an in-memory TicketRepository for tests.
type fakeTicketRepo struct {
	byID      map[string]*domain.Ticket
	events    *fakeEventRepo // populates Ticket.Event on reads; may be nil
	createErr error
	updateErr error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{byID: make(map[string]*domain.Ticket)}
}

func (f *fakeTicketRepo) Create(ctx context.Context, t *domain.Ticket) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *t
	f.byID[t.ID] = &cp
	return nil
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	if f.events != nil {
		if e, ok := f.events.byID[t.EventID]; ok {
			ecp := *e
			cp.Event = &ecp
		}
	}
	return &cp, nil
}

func (f *fakeTicketRepo) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Ticket, error) {
	for _, t := range f.byID {
		if t.EventID == eventID && t.UserID == userID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTicketRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.Ticket, error) {
	var out []*domain.Ticket
	for _, t := range f.byID {
		if t.EventID == eventID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	t, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = status
	return nil
}

// fakeNotificationRepo is an in-memory NotificationRepository for tests.
// It is mutex-guarded because the scheduler touches it from its own goroutine.
type fakeNotificationRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Notification
	order     []string
	createErr error
	listErr   error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{byID: make(map[string]*domain.Notification)}
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *n
	f.byID[n.ID] = &cp
	f.order = append(f.order, n.ID)
	return nil
}

func (f *fakeNotificationRepo) List(ctx context.Context) ([]*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.Notification, 0, len(f.order))
	for _, id := range f.order {
		cp := *f.byID[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeNotificationRepo) ListByStatus(ctx context.Context, status domain.NotificationStatus) ([]*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Notification
	for _, id := range f.order {
		if f.byID[id].Status == status {
			cp := *f.byID[id]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) UpdateStatus(ctx context.Context, id string, status domain.NotificationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	n.Status = status
	return nil
}

func (f *fakeNotificationRepo) statusOf(id string) domain.NotificationStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n, ok := f.byID[id]; ok {
		return n.Status
	}
	return ""
}

// fakeCategoryRepo is an in-memory CategoryRepository for tests.
type fakeCategoryRepo struct {
	byID map[string]*domain.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{byID: make(map[string]*domain.Category)}
}

func (f *fakeCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range f.byID {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// fakeCache is an in-memory Cache storing JSON, counting hits and misses.
type fakeCache struct {
	data   map[string][]byte
	getErr error
	setErr error
	hits   int
	misses int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if f.getErr != nil {
		return false, f.getErr
	}
	raw, ok := f.data[key]
	if !ok {
		f.misses++
		return false, nil
	}
	f.hits++
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *fakeCache) Del(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

// fakeCodeGenerator returns a deterministic code derived from the seed.
type fakeCodeGenerator struct {
	err error
}

func (f *fakeCodeGenerator) Generate(ctx context.Context, seed string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "code:" + seed, nil
}

// fakeEmailService records sent emails and can be made to fail.
type fakeEmailService struct {
	mu        sync.Mutex
	tickets   []*domain.TicketEmailData
	reminders []*domain.ReminderEmailData
	sendErr   error
}

func (f *fakeEmailService) SendTicket(ctx context.Context, data *domain.TicketEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.tickets = append(f.tickets, data)
	return nil
}

func (f *fakeEmailService) SendReminder(ctx context.Context, data *domain.ReminderEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.reminders = append(f.reminders, data)
	return nil
}

func (f *fakeEmailService) reminderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reminders)
}

// fakeScheduler records created notifications without any dispatch loop.
type fakeScheduler struct {
	created   []*domain.Notification
	createErr error
}

func (f *fakeScheduler) CreateNotification(ctx context.Context, n *domain.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, n)
	return nil
}

func (f *fakeScheduler) RecoverPending(ctx context.Context) (int, error) { return 0, nil }
func (f *fakeScheduler) Start()                                          {}
func (f *fakeScheduler) Stop()                                           {}

// fakeHasher is a reversible stand-in for a real password hasher.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

// fakeTokenIssuer returns a predictable token.
type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(userID, email, role string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token:" + userID, nil
}
