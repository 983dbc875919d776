package repository

import (
	"context"
	"errors"

	"paceup/internal/cache"
	"paceup/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// EventFilter narrows event listings.
type EventFilter struct {
	// Status filters by moderation status; "all" disables the filter.
	Status      string
	OrganizerID string
	Limit       int
	Offset      int
}

// EventRepository defines persistence operations for events.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, filter EventFilter) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id, status string) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type eventRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewEventRepository returns a new EventRepository implementation.
func NewEventRepository(db *gorm.DB, rdb *redis.Client) EventRepository {
	return &eventRepository{db: db, rdb: rdb}
}

// applyEventDetails joins the organizer name and counts non-rejected
// registrations in one query.
func (r *eventRepository) applyEventDetails(db *gorm.DB) *gorm.DB {
	return db.
		Select("events.*, users.username as organizer_name, " +
			"(SELECT COUNT(*) FROM event_registrations WHERE event_registrations.event_id = events.id AND event_registrations.status != 'rejected') as registered_count").
		Joins("JOIN users ON users.id = events.organizer_id")
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := r.applyEventDetails(r.db.WithContext(ctx).Model(&models.Event{})).
		Where("events.id = ?", id).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Event", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, filter EventFilter) ([]*models.Event, error) {
	var events []*models.Event
	q := r.applyEventDetails(r.db.WithContext(ctx).Model(&models.Event{}))
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("events.status = ?", filter.Status)
	}
	if filter.OrganizerID != "" {
		q = q.Where("events.organizer_id = ?", filter.OrganizerID)
	}
	q = q.Order("events.date ASC")
	// Limit(0) would emit LIMIT 0 and return nothing; zero means unbounded here.
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	err := q.Offset(filter.Offset).Find(&events).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Save(event).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateEvent(ctx, r.rdb, event.ID)
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Event{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Event", id)
	}
	cache.InvalidateEvent(ctx, r.rdb, id)
	return nil
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Event", id)
	}
	cache.InvalidateEvent(ctx, r.rdb, id)
	return nil
}

func (r *eventRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.Event{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
