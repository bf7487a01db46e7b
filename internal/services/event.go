package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventful/internal/domain"
)

const (
	eventCachePrefix = "events:id:"
	listCachePrefix  = "events:list:"
)

var timeRegexp = regexp.MustCompile(`^(\d{1,2}):(\d{2})(AM|PM)?$`)

type eventService struct {
	eventRepo domain.EventRepository
	cache     domain.Cache
	codes     domain.CodeGenerator
	cacheTTL  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewEventService creates the event registry backed by the given repository,
// side-cache, and code generator.
func NewEventService(eventRepo domain.EventRepository, cache domain.Cache, codes domain.CodeGenerator, cacheTTL time.Duration, logger *slog.Logger) domain.EventService {
	return &eventService{
		eventRepo: eventRepo,
		cache:     cache,
		codes:     codes,
		cacheTTL:  cacheTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// normalizeClockTime strips whitespace and uppercases the AM/PM marker, so
// "7:30 pm" becomes "7:30PM".
func normalizeClockTime(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

// parseEventDateTime combines a "2006-01-02" date and a normalized clock
// time into a single timestamp.
func parseEventDateTime(date, clock string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", domain.ErrInvalidInput, date)
	}
	m := timeRegexp.FindStringSubmatch(clock)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: invalid time %q", domain.ErrInvalidInput, clock)
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	if minutes > 59 {
		return time.Time{}, fmt.Errorf("%w: invalid time %q", domain.ErrInvalidInput, clock)
	}
	switch m[3] {
	case "AM":
		if hours < 1 || hours > 12 {
			return time.Time{}, fmt.Errorf("%w: invalid time %q", domain.ErrInvalidInput, clock)
		}
		if hours == 12 {
			hours = 0
		}
	case "PM":
		if hours < 1 || hours > 12 {
			return time.Time{}, fmt.Errorf("%w: invalid time %q", domain.ErrInvalidInput, clock)
		}
		if hours != 12 {
			hours += 12
		}
	default:
		if hours > 23 {
			return time.Time{}, fmt.Errorf("%w: invalid time %q", domain.ErrInvalidInput, clock)
		}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hours, minutes, 0, 0, time.UTC), nil
}

func (s *eventService) Create(ctx context.Context, creatorID string, input domain.CreateEventInput) (*domain.Event, error) {
	if creatorID == "" {
		return nil, fmt.Errorf("%w: event creator is required", domain.ErrInvalidInput)
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: event title is required", domain.ErrInvalidInput)
	}

	clock := normalizeClockTime(input.Time)
	dateTime, err := parseEventDateTime(input.Date, clock)
	if err != nil {
		return nil, err
	}

	reminderAt := dateTime.Add(-24 * time.Hour)
	if input.ReminderAt != nil {
		reminderAt = *input.ReminderAt
	}

	now := s.now()
	event := &domain.Event{
		ID:          uuid.NewString(),
		Title:       title,
		Description: input.Description,
		Date:        input.Date,
		Time:        clock,
		DateTime:    dateTime,
		Location:    input.Location,
		CreatorID:   creatorID,
		CategoryID:  input.CategoryID,
		ReminderAt:  reminderAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	code, err := s.codes.Generate(ctx, "event:"+event.ID)
	if err != nil {
		return nil, fmt.Errorf("generate event code: %w", err)
	}
	event.EventCode = code

	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, domain.ErrDuplicateTitle) {
			return nil, domain.ErrDuplicateTitle
		}
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.cachePut(ctx, eventCachePrefix+event.ID, event)
	return event, nil
}

func (s *eventService) FindAll(ctx context.Context, filter domain.EventFilter) (*domain.EventPage, error) {
	if filter.Page.Page < 1 {
		filter.Page.Page = 1
	}
	if filter.Page.Limit < 1 {
		filter.Page.Limit = 10
	}
	if _, ok := domain.ParseSortField(string(filter.SortBy)); !ok {
		filter.SortBy = domain.SortByDate
	}

	key := listCacheKey(filter)
	var cached domain.EventPage
	if ok := s.cacheGet(ctx, key, &cached); ok {
		return &cached, nil
	}

	events, total, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	page := &domain.EventPage{
		Events: events,
		Meta:   domain.NewPageMeta(filter.Page.Page, filter.Page.Limit, total),
	}
	s.cachePut(ctx, key, page)
	return page, nil
}

func (s *eventService) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	key := eventCachePrefix + id
	var cached domain.Event
	if ok := s.cacheGet(ctx, key, &cached); ok {
		return &cached, nil
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	s.cachePut(ctx, key, event)
	return event, nil
}

func (s *eventService) Update(ctx context.Context, userID, id string, input domain.UpdateEventInput) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.CreatorID != userID {
		return nil, domain.ErrForbidden
	}

	patch := domain.EventPatch{
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		CategoryID:  input.CategoryID,
		ReminderAt:  input.ReminderAt,
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: event title is required", domain.ErrInvalidInput)
		}
		patch.Title = &title
	}

	// A date or time change re-derives the combined timestamp so it stays
	// consistent with the stored strings.
	if input.Date != nil || input.Time != nil {
		date := event.Date
		clock := event.Time
		if input.Date != nil {
			date = *input.Date
		}
		if input.Time != nil {
			clock = normalizeClockTime(*input.Time)
			patch.Time = &clock
		}
		dateTime, err := parseEventDateTime(date, clock)
		if err != nil {
			return nil, err
		}
		patch.Date = input.Date
		patch.DateTime = &dateTime
	}

	updated, err := s.eventRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrDuplicateTitle) {
			return nil, err
		}
		return nil, fmt.Errorf("update event: %w", err)
	}

	s.cachePut(ctx, eventCachePrefix+id, updated)
	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, userID, id string) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.CreatorID != userID {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.cacheDrop(ctx, eventCachePrefix+id)
	return nil
}

// listCacheKey serializes the filter into a stable cache key.
func listCacheKey(f domain.EventFilter) string {
	return fmt.Sprintf("%st=%s:p=%d:l=%d:s=%s:d=%t",
		listCachePrefix, strings.ToLower(f.Title), f.Page.Page, f.Page.Limit, f.SortBy, f.SortDesc)
}

// Cache failures are logged and swallowed; the store stays authoritative and
// a request never fails solely because the cache is unavailable.

func (s *eventService) cacheGet(ctx context.Context, key string, dest any) bool {
	ok, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.WarnContext(ctx, "cache read failed", "key", key, "err", err)
		return false
	}
	return ok
}

func (s *eventService) cachePut(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "cache write failed", "key", key, "err", err)
	}
}

func (s *eventService) cacheDrop(ctx context.Context, key string) {
	if err := s.cache.Del(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "cache delete failed", "key", key, "err", err)
	}
}
