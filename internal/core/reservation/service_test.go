// Copyright (c) 2026 Veranda Systems. All rights reserved.

package reservation_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verandahq/veranda/internal/core/commonspace"
	"github.com/verandahq/veranda/internal/core/reservation"
	"github.com/verandahq/veranda/internal/core/resident"
	"github.com/verandahq/veranda/internal/platform/apperr"
	"github.com/verandahq/veranda/internal/platform/cache"
)

const residentID = "b7e2a1c4-5d6e-4f70-8a91-234567890abc"

// fakeRepository is an in-memory [reservation.Repository].
type fakeRepository struct {
	byID map[string]*reservation.Reservation
}

func newFakeRepository(reservations ...*reservation.Reservation) *fakeRepository {
	repository := &fakeRepository{byID: map[string]*reservation.Reservation{}}
	for _, r := range reservations {
		repository.byID[r.ID] = r
	}
	return repository
}

func (repository *fakeRepository) ListReservations(_ context.Context, commonSpaceID string, filter reservation.Filter, limit, offset int) ([]*reservation.Reservation, int, error) {
	var reservations []*reservation.Reservation
	for _, r := range repository.byID {
		if r.CommonSpaceID != commonSpaceID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		reservations = append(reservations, r)
	}
	return reservations, len(reservations), nil
}

func (repository *fakeRepository) GetReservation(_ context.Context, id string) (*reservation.Reservation, error) {
	r, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("Reservation")
	}
	copied := *r
	return &copied, nil
}

func (repository *fakeRepository) CreateReservation(_ context.Context, r *reservation.Reservation) error {
	repository.byID[r.ID] = r
	return nil
}

func (repository *fakeRepository) UpdateReservation(_ context.Context, r *reservation.Reservation) error {
	stored, ok := repository.byID[r.ID]
	if !ok {
		return apperr.NotFound("Reservation")
	}
	copied := *r
	copied.Status = stored.Status
	repository.byID[r.ID] = &copied
	return nil
}

func (repository *fakeRepository) SetStatus(_ context.Context, id, status string) error {
	r, ok := repository.byID[id]
	if !ok {
		return apperr.NotFound("Reservation")
	}
	r.Status = status
	return nil
}

func (repository *fakeRepository) DeleteReservation(_ context.Context, id string) error {
	if _, ok := repository.byID[id]; !ok {
		return apperr.NotFound("Reservation")
	}
	delete(repository.byID, id)
	return nil
}

type fakeSpaces struct {
	byID map[string]*commonspace.CommonSpace
}

func (spaces *fakeSpaces) GetCommonSpace(_ context.Context, id string) (*commonspace.CommonSpace, error) {
	space, ok := spaces.byID[id]
	if !ok {
		return nil, apperr.NotFound("Common space")
	}
	return space, nil
}

type fakeResidents struct {
	byID map[string]*resident.Resident
}

func (residents *fakeResidents) GetResident(_ context.Context, id string, _ bool) (*resident.Resident, error) {
	r, ok := residents.byID[id]
	if !ok {
		return nil, apperr.NotFound("Resident")
	}
	return r, nil
}

// recordedConfirmation captures one published confirmation email.
type recordedConfirmation struct {
	recipient string
	spaceName string
	startTime string
}

type recordingMailer struct {
	sent    []recordedConfirmation
	failure error
}

func (mailer *recordingMailer) PublishReservationConfirmed(_ context.Context, recipient, _, spaceName string, _ time.Time, startTime, _ string) error {
	if mailer.failure != nil {
		return mailer.failure
	}
	mailer.sent = append(mailer.sent, recordedConfirmation{recipient: recipient, spaceName: spaceName, startTime: startTime})
	return nil
}

type fixture struct {
	service    *reservation.Service
	repository *fakeRepository
	mailer     *recordingMailer
}

func newFixture(t *testing.T, reservations ...*reservation.Reservation) *fixture {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	logger := slog.New(slog.DiscardHandler)

	spaces := &fakeSpaces{byID: map[string]*commonspace.CommonSpace{
		"cs1": {
			ID:       "cs1",
			Name:     "Rooftop Lounge",
			Capacity: 40,
			OpensAt:  "08:00",
			ClosesAt: "22:00",
			IsActive: true,
		},
	}}
	residents := &fakeResidents{byID: map[string]*resident.Resident{
		residentID: {
			ID:        residentID,
			FirstName: "Marta",
			LastName:  "Reyes",
			Email:     "marta@example.com",
		},
	}}

	repository := newFakeRepository(reservations...)
	mailer := &recordingMailer{}
	return &fixture{
		service:    reservation.NewService(repository, spaces, residents, cache.New(client, logger), mailer, logger),
		repository: repository,
		mailer:     mailer,
	}
}

func sampleReservation(id, status string) *reservation.Reservation {
	return &reservation.Reservation{
		ID:             id,
		Date:           time.Now().AddDate(0, 0, 7),
		StartTime:      "10:00",
		EndTime:        "12:00",
		Status:         status,
		Kind:           reservation.KindMeeting,
		NumberOfGuests: 12,
		CommonSpaceID:  "cs1",
		ResidentID:     residentID,
	}
}

/*
TestService_Transitions exercises the reservation status machine: pending
reservations can be confirmed or cancelled, confirmed ones cancelled or
completed, and closed ones go nowhere.
*/
func TestService_Transitions(t *testing.T) {
	confirm := func(f *fixture) error {
		_, err := f.service.ConfirmReservation(context.Background(), "r1")
		return err
	}
	cancel := func(f *fixture) error {
		_, err := f.service.CancelReservation(context.Background(), "r1")
		return err
	}
	complete := func(f *fixture) error {
		_, err := f.service.CompleteReservation(context.Background(), "r1")
		return err
	}

	cases := []struct {
		name    string
		from    string
		move    func(*fixture) error
		want    string
		allowed bool
	}{
		{"pending_confirm", reservation.StatusPending, confirm, reservation.StatusConfirmed, true},
		{"pending_cancel", reservation.StatusPending, cancel, reservation.StatusCancelled, true},
		{"pending_complete", reservation.StatusPending, complete, "", false},
		{"confirmed_cancel", reservation.StatusConfirmed, cancel, reservation.StatusCancelled, true},
		{"confirmed_complete", reservation.StatusConfirmed, complete, reservation.StatusCompleted, true},
		{"confirmed_confirm", reservation.StatusConfirmed, confirm, "", false},
		{"cancelled_confirm", reservation.StatusCancelled, confirm, "", false},
		{"cancelled_complete", reservation.StatusCancelled, complete, "", false},
		{"completed_cancel", reservation.StatusCompleted, cancel, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, sampleReservation("r1", tc.from))

			err := tc.move(f)
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.want, f.repository.byID["r1"].Status)
			} else {
				require.Error(t, err)
				assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
				assert.Equal(t, tc.from, f.repository.byID["r1"].Status)
			}
		})
	}

	t.Run("unknown_reservation_is_not_found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.ConfirmReservation(context.Background(), "ghost")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

/*
TestService_ConfirmReservation verifies the confirmation email hook.
*/
func TestService_ConfirmReservation(t *testing.T) {
	t.Run("confirmation_enqueues_email", func(t *testing.T) {
		f := newFixture(t, sampleReservation("r1", reservation.StatusPending))

		confirmed, err := f.service.ConfirmReservation(context.Background(), "r1")
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusConfirmed, confirmed.Status)

		require.Len(t, f.mailer.sent, 1)
		assert.Equal(t, "marta@example.com", f.mailer.sent[0].recipient)
		assert.Equal(t, "Rooftop Lounge", f.mailer.sent[0].spaceName)
		assert.Equal(t, "10:00", f.mailer.sent[0].startTime)
	})

	t.Run("email_outage_does_not_fail_confirmation", func(t *testing.T) {
		f := newFixture(t, sampleReservation("r1", reservation.StatusPending))
		f.mailer.failure = errors.New("broker unreachable")

		_, err := f.service.ConfirmReservation(context.Background(), "r1")
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusConfirmed, f.repository.byID["r1"].Status)
	})
}

/*
TestService_CreateReservation covers booking checks against the common space.
*/
func TestService_CreateReservation(t *testing.T) {
	t.Run("booking_starts_pending", func(t *testing.T) {
		f := newFixture(t)

		input := sampleReservation("", "")
		require.NoError(t, f.service.CreateReservation(context.Background(), input))
		assert.NotEmpty(t, input.ID)
		assert.Equal(t, reservation.StatusPending, input.Status)
	})

	t.Run("guest_count_over_capacity_is_rejected", func(t *testing.T) {
		f := newFixture(t)

		input := sampleReservation("", "")
		input.NumberOfGuests = 41
		err := f.service.CreateReservation(context.Background(), input)
		require.Error(t, err)
		assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
	})

	t.Run("slot_outside_opening_hours_is_rejected", func(t *testing.T) {
		f := newFixture(t)

		input := sampleReservation("", "")
		input.StartTime = "06:00"
		input.EndTime = "09:00"
		err := f.service.CreateReservation(context.Background(), input)
		require.Error(t, err)
		assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
	})

	t.Run("end_before_start_fails_validation", func(t *testing.T) {
		f := newFixture(t)

		input := sampleReservation("", "")
		input.StartTime = "12:00"
		input.EndTime = "10:00"
		err := f.service.CreateReservation(context.Background(), input)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("unknown_space_is_not_found", func(t *testing.T) {
		f := newFixture(t)

		input := sampleReservation("", "")
		input.CommonSpaceID = "ghost"
		err := f.service.CreateReservation(context.Background(), input)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

/*
TestService_UpdateReservation verifies that only pending reservations accept
edits.
*/
func TestService_UpdateReservation(t *testing.T) {
	t.Run("pending_reservation_is_editable", func(t *testing.T) {
		f := newFixture(t, sampleReservation("r1", reservation.StatusPending))

		input := sampleReservation("", "")
		input.NumberOfGuests = 20
		require.NoError(t, f.service.UpdateReservation(context.Background(), "r1", input))
		assert.Equal(t, 20, f.repository.byID["r1"].NumberOfGuests)
	})

	t.Run("confirmed_reservation_rejects_edits", func(t *testing.T) {
		f := newFixture(t, sampleReservation("r1", reservation.StatusConfirmed))

		input := sampleReservation("", "")
		err := f.service.UpdateReservation(context.Background(), "r1", input)
		require.Error(t, err)
		assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
	})
}
