package service

import (
	"context"
	"time"

	"cheapbite/internal/models"
	"cheapbite/internal/repository"
)

// EventService provides event scheduling and RSVP business logic.
type EventService struct {
	eventRepo repository.EventRepository
}

type CreateEventInput struct {
	CreatedBy   uint
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Location    string
	InviteeIDs  []uint
}

type UpdateEventInput struct {
	UserID      uint
	EventID     uint
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Location    *string
}

func NewEventService(eventRepo repository.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

// CreateEvent creates a scheduled event. The creator is always a participant
// and starts as the only attendee.
func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (*models.Event, error) {
	participants := models.UintList{in.CreatedBy}
	for _, id := range in.InviteeIDs {
		if !participants.Contains(id) {
			participants = append(participants, id)
		}
	}

	event := &models.Event{
		Title:          in.Title,
		Description:    in.Description,
		CreatedBy:      in.CreatedBy,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		Location:       in.Location,
		ParticipantIDs: participants,
		AttendeeIDs:    models.UintList{in.CreatedBy},
		Status:         models.EventScheduled,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetEvent returns the event; only participants can see it.
func (s *EventService) GetEvent(ctx context.Context, userID, eventID uint) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.ParticipantIDs.Contains(userID) {
		return nil, models.NewNotFoundError("event", eventID)
	}
	return event, nil
}

// ListMyEvents returns events where the caller is a participant.
func (s *EventService) ListMyEvents(ctx context.Context, userID uint, includePast bool, limit, offset int) ([]models.Event, error) {
	return s.eventRepo.ListForUser(ctx, userID, includePast, limit, offset)
}

// RSVP records or withdraws attendance. Non-participants are turned away and
// cancelled events reject further RSVPs. Only the attendee list changes. The
// checks and the rewrite both run against the row the repository locked, so
// concurrent RSVPs cannot clobber each other.
func (s *EventService) RSVP(ctx context.Context, userID, eventID uint, attending bool) (*models.Event, error) {
	return s.eventRepo.Mutate(ctx, eventID, func(event *models.Event) error {
		if !event.ParticipantIDs.Contains(userID) {
			return models.NewForbiddenError("Only participants can RSVP")
		}
		if event.Status != models.EventScheduled {
			return models.NewValidationError("Event is no longer scheduled")
		}

		if attending {
			if !event.AttendeeIDs.Contains(userID) {
				event.AttendeeIDs = append(event.AttendeeIDs, userID)
			}
		} else {
			event.AttendeeIDs = event.AttendeeIDs.Without(userID)
		}
		return nil
	})
}

// CancelEvent sets the event status to cancelled. Creator only.
func (s *EventService) CancelEvent(ctx context.Context, userID, eventID uint) (*models.Event, error) {
	return s.eventRepo.Mutate(ctx, eventID, func(event *models.Event) error {
		if event.CreatedBy != userID {
			return models.NewForbiddenError("Only the creator can cancel this event")
		}
		event.Status = models.EventCancelled
		return nil
	})
}

// UpdateEvent edits event details. Creator only; participants and attendees
// are not touched here.
func (s *EventService) UpdateEvent(ctx context.Context, in UpdateEventInput) (*models.Event, error) {
	return s.eventRepo.Mutate(ctx, in.EventID, func(event *models.Event) error {
		if event.CreatedBy != in.UserID {
			return models.NewForbiddenError("Only the creator can edit this event")
		}

		if in.Title != nil {
			event.Title = *in.Title
		}
		if in.Description != nil {
			event.Description = *in.Description
		}
		if in.StartTime != nil {
			event.StartTime = *in.StartTime
		}
		if in.EndTime != nil {
			event.EndTime = *in.EndTime
		}
		if in.Location != nil {
			event.Location = *in.Location
		}
		return event.Validate()
	})
}
