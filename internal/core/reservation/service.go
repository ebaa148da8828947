// Copyright (c) 2026 Veranda Systems. All rights reserved.

package reservation

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/verandahq/veranda/internal/core/commonspace"
	"github.com/verandahq/veranda/internal/core/resident"
	"github.com/verandahq/veranda/internal/platform/apperr"
	"github.com/verandahq/veranda/internal/platform/cache"
	"github.com/verandahq/veranda/internal/platform/constants"
	"github.com/verandahq/veranda/internal/platform/validate"
	"github.com/verandahq/veranda/pkg/uuid"
)

const cacheEntity = "reservation"

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// transitions lists the statuses a reservation may move to from each status.
// Terminal statuses (CANCELLED, COMPLETED) have no outgoing edges.
var transitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// SpaceDirectory resolves the common space a reservation books.
// *commonspace.Service satisfies it.
type SpaceDirectory interface {
	GetCommonSpace(ctx context.Context, id string) (*commonspace.CommonSpace, error)
}

// ResidentDirectory resolves the resident who holds a reservation.
// *resident.Service satisfies it.
type ResidentDirectory interface {
	GetResident(ctx context.Context, id string, includeDeleted bool) (*resident.Resident, error)
}

// ConfirmationMailer enqueues a reservation confirmation email. Publishing is
// best-effort: failures are logged, never surfaced to the caller.
type ConfirmationMailer interface {
	PublishReservationConfirmed(ctx context.Context, recipient, firstName, spaceName string, date time.Time, startTime, endTime string) error
}

type Service struct {
	repo      Repository
	spaces    SpaceDirectory
	residents ResidentDirectory
	cache     *cache.Cache
	mailer    ConfirmationMailer
	logger    *slog.Logger
}

func NewService(repo Repository, spaces SpaceDirectory, residents ResidentDirectory, cache *cache.Cache, mailer ConfirmationMailer, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		spaces:    spaces,
		residents: residents,
		cache:     cache,
		mailer:    mailer,
		logger:    logger,
	}
}

func (service *Service) ListReservations(context context.Context, commonSpaceID string, filter Filter, limit, offset int) ([]*Reservation, int, error) {
	return service.repo.ListReservations(context, commonSpaceID, filter, limit, offset)
}

func (service *Service) GetReservation(ctx context.Context, id string) (*Reservation, error) {
	return cache.GetOrSet(ctx, service.cache, cache.Key(cacheEntity, id), constants.CacheTTLEntity,
		func(ctx context.Context) (*Reservation, error) {
			return service.repo.GetReservation(ctx, id)
		})
}

/*
CreateReservation books a common space for a resident. The reservation starts
out PENDING and must be confirmed by an admin before the event.

The booking is checked against the space itself: the space must be active, the
guest count must fit its capacity, and the time slot must fall inside its
opening hours.
*/
func (service *Service) CreateReservation(context context.Context, reservation *Reservation) error {
	if err := validateReservation(reservation); err != nil {
		return err
	}

	space, err := service.spaces.GetCommonSpace(context, reservation.CommonSpaceID)
	if err != nil {
		return err
	}
	if !space.IsActive {
		return apperr.Unprocessable("Common space is not available for reservations")
	}
	if reservation.NumberOfGuests > space.Capacity {
		return apperr.Unprocessable(fmt.Sprintf("Guest count exceeds the space capacity of %d", space.Capacity))
	}
	if reservation.StartTime < space.OpensAt || reservation.EndTime > space.ClosesAt {
		return apperr.Unprocessable(fmt.Sprintf("Reservation must fall between %s and %s", space.OpensAt, space.ClosesAt))
	}

	if _, err := service.residents.GetResident(context, reservation.ResidentID, false); err != nil {
		return err
	}

	reservation.ID = uuid.New()
	reservation.Status = StatusPending

	if err := service.repo.CreateReservation(context, reservation); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Info("reservation_created",
		slog.String("reservation_id", reservation.ID),
		slog.String("common_space_id", reservation.CommonSpaceID),
		slog.String("resident_id", reservation.ResidentID),
	)
	return nil
}

// UpdateReservation rewrites the editable fields of a pending reservation.
// Confirmed or closed reservations cannot be edited.
func (service *Service) UpdateReservation(context context.Context, id string, reservation *Reservation) error {
	reservation.ID = id
	if err := validateReservation(reservation); err != nil {
		return err
	}

	current, err := service.repo.GetReservation(context, id)
	if err != nil {
		return err
	}
	if current.Status != StatusPending {
		return apperr.Unprocessable("Only pending reservations can be edited")
	}

	if err := service.repo.UpdateReservation(context, reservation); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Info("reservation_updated", slog.String("reservation_id", id))
	return nil
}

// ConfirmReservation moves a pending reservation to CONFIRMED and enqueues a
// confirmation email for the resident. The email is best-effort.
func (service *Service) ConfirmReservation(context context.Context, id string) (*Reservation, error) {
	reservation, err := service.transition(context, id, StatusConfirmed)
	if err != nil {
		return nil, err
	}

	service.sendConfirmation(context, reservation)
	return reservation, nil
}

// CancelReservation moves a pending or confirmed reservation to CANCELLED.
func (service *Service) CancelReservation(context context.Context, id string) (*Reservation, error) {
	return service.transition(context, id, StatusCancelled)
}

// CompleteReservation moves a confirmed reservation to COMPLETED.
func (service *Service) CompleteReservation(context context.Context, id string) (*Reservation, error) {
	return service.transition(context, id, StatusCompleted)
}

func (service *Service) DeleteReservation(context context.Context, id string) error {
	if err := service.repo.DeleteReservation(context, id); err != nil {
		return err
	}

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Warn("reservation_deleted", slog.String("reservation_id", id))
	return nil
}

func (service *Service) transition(context context.Context, id, target string) (*Reservation, error) {
	reservation, err := service.repo.GetReservation(context, id)
	if err != nil {
		return nil, err
	}

	if !canTransition(reservation.Status, target) {
		return nil, apperr.Unprocessable(fmt.Sprintf("Cannot move a %s reservation to %s", reservation.Status, target))
	}

	if err := service.repo.SetStatus(context, id, target); err != nil {
		return nil, err
	}
	reservation.Status = target

	service.cache.InvalidatePattern(context, cache.Pattern(cacheEntity))

	service.logger.Info("reservation_status_changed",
		slog.String("reservation_id", id),
		slog.String("status", target),
	)
	return reservation, nil
}

func (service *Service) sendConfirmation(context context.Context, reservation *Reservation) {
	if service.mailer == nil {
		return
	}

	holder, err := service.residents.GetResident(context, reservation.ResidentID, false)
	if err != nil {
		service.logger.Warn("reservation_confirmation_email_skipped",
			slog.String("reservation_id", reservation.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	spaceName := reservation.CommonSpaceID
	if space, err := service.spaces.GetCommonSpace(context, reservation.CommonSpaceID); err == nil {
		spaceName = space.Name
	}

	err = service.mailer.PublishReservationConfirmed(context,
		holder.Email, holder.FirstName, spaceName,
		reservation.Date, reservation.StartTime, reservation.EndTime,
	)
	if err != nil {
		service.logger.Warn("reservation_confirmation_email_failed",
			slog.String("reservation_id", reservation.ID),
			slog.String("error", err.Error()),
		)
	}
}

func canTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func validateReservation(reservation *Reservation) error {
	validator := &validate.Validator{}

	validator.Custom(FieldDate, reservation.Date.IsZero(), "This field is required")
	validator.Custom(FieldStartTime, !clockRegex.MatchString(reservation.StartTime), "Must be a 24h HH:MM time")
	validator.Custom(FieldEndTime, !clockRegex.MatchString(reservation.EndTime), "Must be a 24h HH:MM time")
	validator.OneOf(FieldKind, reservation.Kind, KindPrivateEvent, KindMeeting, KindSports, KindOther)
	validator.Range(FieldNumberOfGuests, reservation.NumberOfGuests, 1, 10000)
	validator.UUID(FieldResidentID, reservation.ResidentID)

	if clockRegex.MatchString(reservation.StartTime) && clockRegex.MatchString(reservation.EndTime) {
		validator.Custom(FieldEndTime, reservation.EndTime <= reservation.StartTime, "Must be after start_time")
	}

	return validator.Err()
}
