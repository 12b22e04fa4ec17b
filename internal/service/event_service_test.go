package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yichenzhao/buddyup/internal/models"
	"github.com/yichenzhao/buddyup/internal/sydtime"
)

type eventFixture struct {
	events   *fakeEventRepo
	users    *fakeUserRepo
	notifier *fakeNotifier
	svc      *eventService
	creator  *models.User
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()

	events := newFakeEventRepo()
	users := newFakeUserRepo()
	notifier := &fakeNotifier{}
	creator := users.addUser(&models.User{Username: "organizer", Email: "organizer@example.com", Score: models.DefaultScore})

	svc := NewEventService(events, users, notifier).(*eventService)
	return &eventFixture{events: events, users: users, notifier: notifier, svc: svc, creator: creator}
}

func (f *eventFixture) validInput() CreateEventInput {
	return CreateEventInput{
		Title:           "Bondi Sunrise Swim",
		Description:     "Early laps at the icebergs pool.",
		Location:        "Bondi Beach",
		StartTime:       "2025-08-15T06:30",
		DurationMinutes: 90,
		MaxParticipants: 8,
		Category:        models.CategorySportsOutdoors,
		Tags:            []string{"swimming", "morning"},
	}
}

func (f *eventFixture) addEvent(t *testing.T, maxParticipants int) *models.Event {
	t.Helper()
	event := &models.Event{
		ID:              uuid.New(),
		Title:           "Bondi Sunrise Swim",
		Location:        "Bondi Beach",
		StartTime:       "2025-08-15T06:30",
		DurationMinutes: 90,
		MaxParticipants: maxParticipants,
		Category:        models.CategorySportsOutdoors,
		CreatorID:       f.creator.ID,
	}
	f.events.addEvent(event)
	return event
}

func TestCreateEvent(t *testing.T) {
	f := newEventFixture(t)

	event, err := f.svc.Create(context.Background(), f.creator.ID, f.validInput())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "Bondi Sunrise Swim", event.Title)
	assert.Equal(t, f.creator.ID, event.CreatorID)
	assert.False(t, event.Expired)
}

func TestCreateEventScoreGate(t *testing.T) {
	f := newEventFixture(t)
	lowScore := f.users.addUser(&models.User{Username: "newbie", Email: "newbie@example.com", Score: MinScoreToCreateEvent - 1})

	_, err := f.svc.Create(context.Background(), lowScore.ID, f.validInput())
	assert.ErrorIs(t, err, ErrScoreTooLow)
}

func TestCreateEventValidation(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	cases := map[string]func(*CreateEventInput){
		"missing title":    func(in *CreateEventInput) { in.Title = "" },
		"missing location": func(in *CreateEventInput) { in.Location = "" },
		"bad start time":   func(in *CreateEventInput) { in.StartTime = "15/08/2025 06:30" },
		"zero duration":    func(in *CreateEventInput) { in.DurationMinutes = 0 },
		"zero capacity":    func(in *CreateEventInput) { in.MaxParticipants = 0 },
		"unknown category": func(in *CreateEventInput) { in.Category = "underwater-basket-weaving" },
		"too many tags":    func(in *CreateEventInput) { in.Tags = make([]string, maxEventTags+1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := f.validInput()
			mutate(&input)
			_, err := f.svc.Create(ctx, f.creator.ID, input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUpdateEventRequiresCreatorOrAdmin(t *testing.T) {
	f := newEventFixture(t)
	event := f.addEvent(t, 8)
	stranger := f.users.addUser(&models.User{Username: "mallory", Email: "mallory@example.com"})
	admin := f.users.addUser(&models.User{Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin})

	title := "Renamed"
	_, err := f.svc.Update(context.Background(), event.ID, stranger.ID, UpdateEventInput{Title: &title})
	assert.ErrorIs(t, err, ErrNotCreator)

	updated, err := f.svc.Update(context.Background(), event.ID, admin.ID, UpdateEventInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
}

// Scenario: shrinking capacity below the approved count is rejected and the
// roster is untouched.
func TestUpdateEventCapacityBelowApproved(t *testing.T) {
	f := newEventFixture(t)
	event := f.addEvent(t, 8)

	approvedUsers := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range approvedUsers {
		f.events.addParticipant(event.ID, id, models.StatusApproved, 0)
	}

	two := 2
	_, err := f.svc.Update(context.Background(), event.ID, f.creator.ID, UpdateEventInput{MaxParticipants: &two})
	assert.ErrorIs(t, err, ErrCapacityBelowApproved)

	for _, id := range approvedUsers {
		status, _ := f.events.participantStatus(event.ID, id)
		assert.Equal(t, models.StatusApproved, status)
	}
	current, err := f.svc.Get(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, current.MaxParticipants)

	// Shrinking down to exactly the approved count is fine.
	three := 3
	updated, err := f.svc.Update(context.Background(), event.ID, f.creator.ID, UpdateEventInput{MaxParticipants: &three})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.MaxParticipants)
}

func TestUpdateEventNotifiesScheduleChange(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	pending := uuid.New()
	approved := uuid.New()
	cancelled := uuid.New()
	denied := uuid.New()

	newTime := "2025-08-16T07:00"
	newLocation := "Manly Beach"

	t.Run("time only", func(t *testing.T) {
		event := f.addEvent(t, 8)
		f.events.addParticipant(event.ID, pending, models.StatusPending, 0)
		f.events.addParticipant(event.ID, approved, models.StatusApproved, 0)
		f.events.addParticipant(event.ID, cancelled, models.StatusCancelled, 1)
		f.events.addParticipant(event.ID, denied, models.StatusDenied, 0)

		f.notifier.calls = nil
		_, err := f.svc.Update(ctx, event.ID, f.creator.ID, UpdateEventInput{StartTime: &newTime})
		require.NoError(t, err)

		require.Len(t, f.notifier.calls, 1)
		call := f.notifier.calls[0]
		assert.Equal(t, models.NotificationEventUpdate, call.typ)
		assert.ElementsMatch(t, []uuid.UUID{pending, approved}, call.recipients)
		assert.Equal(t, "The time of \"Bondi Sunrise Swim\" has changed.", call.message)
	})

	t.Run("location only", func(t *testing.T) {
		event := f.addEvent(t, 8)
		f.events.addParticipant(event.ID, approved, models.StatusApproved, 0)

		f.notifier.calls = nil
		_, err := f.svc.Update(ctx, event.ID, f.creator.ID, UpdateEventInput{Location: &newLocation})
		require.NoError(t, err)

		require.Len(t, f.notifier.calls, 1)
		assert.Equal(t, "The location of \"Bondi Sunrise Swim\" has changed.", f.notifier.calls[0].message)
	})

	t.Run("time and location", func(t *testing.T) {
		event := f.addEvent(t, 8)
		f.events.addParticipant(event.ID, approved, models.StatusApproved, 0)

		f.notifier.calls = nil
		_, err := f.svc.Update(ctx, event.ID, f.creator.ID, UpdateEventInput{StartTime: &newTime, Location: &newLocation})
		require.NoError(t, err)

		require.Len(t, f.notifier.calls, 1)
		assert.Equal(t, "The time and location of \"Bondi Sunrise Swim\" have changed.", f.notifier.calls[0].message)
	})

	t.Run("title edit alone stays quiet", func(t *testing.T) {
		event := f.addEvent(t, 8)
		f.events.addParticipant(event.ID, approved, models.StatusApproved, 0)

		f.notifier.calls = nil
		title := "Renamed Swim"
		_, err := f.svc.Update(ctx, event.ID, f.creator.ID, UpdateEventInput{Title: &title})
		require.NoError(t, err)

		assert.Empty(t, f.notifier.calls)
	})
}

// Rescheduling into the past flips the expiry flag at edit time instead of
// waiting for the next sweep; rescheduling an expired event into the future
// does not clear it.
func TestUpdateEventReevaluatesExpiry(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	now, err := sydtime.Parse("2025-08-20T12:00")
	require.NoError(t, err)
	f.svc.now = func() time.Time { return now }

	event := f.addEvent(t, 8)
	pastTime := "2025-08-19T10:00"
	updated, err := f.svc.Update(ctx, event.ID, f.creator.ID, UpdateEventInput{StartTime: &pastTime})
	require.NoError(t, err)
	assert.True(t, updated.Expired)

	futureTime := "2025-08-21T10:00"
	updated, err = f.svc.Update(ctx, event.ID, f.creator.ID, UpdateEventInput{StartTime: &futureTime})
	require.NoError(t, err)
	assert.True(t, updated.Expired, "expiry flag is monotonic")
}

func TestSweepExpired(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	now, err := sydtime.Parse("2025-08-15T11:00")
	require.NoError(t, err)
	f.svc.now = func() time.Time { return now }

	// Started 10:00, 60 minutes: expired exactly at 11:00.
	ended := f.addEvent(t, 8)
	ended.StartTime = "2025-08-15T10:00"
	ended.DurationMinutes = 60

	// Started 10:30, 60 minutes: still running.
	running := f.addEvent(t, 8)
	running.StartTime = "2025-08-15T10:30"
	running.DurationMinutes = 60

	count, err := f.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := f.svc.Get(ctx, ended.ID)
	require.NoError(t, err)
	assert.True(t, got.Expired)

	got, err = f.svc.Get(ctx, running.ID)
	require.NoError(t, err)
	assert.False(t, got.Expired)

	// A second sweep finds nothing new.
	count, err = f.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestManageableFiltersRoster(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	withRequests := f.addEvent(t, 8)
	f.events.addParticipant(withRequests.ID, uuid.New(), models.StatusPending, 0)
	f.events.addParticipant(withRequests.ID, uuid.New(), models.StatusApproved, 0)
	f.events.addParticipant(withRequests.ID, uuid.New(), models.StatusCancelled, 1)

	settled := f.addEvent(t, 8)
	f.events.addParticipant(settled.ID, uuid.New(), models.StatusDenied, 0)

	events, err := f.svc.Manageable(ctx, f.creator.ID)
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, withRequests.ID, events[0].ID)
	require.Len(t, events[0].Participants, 2)
	for _, p := range events[0].Participants {
		assert.Contains(t, []models.ParticipantStatus{models.StatusPending, models.StatusApproved}, p.Status)
	}
}

func TestParticipatedByExcludesDeniedAndCancelled(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	user := uuid.New()

	joined := f.addEvent(t, 8)
	f.events.addParticipant(joined.ID, user, models.StatusApproved, 0)

	deniedFrom := f.addEvent(t, 8)
	f.events.addParticipant(deniedFrom.ID, user, models.StatusDenied, 0)

	leftFrom := f.addEvent(t, 8)
	f.events.addParticipant(leftFrom.ID, user, models.StatusCancelled, 1)

	events, err := f.svc.ParticipatedBy(ctx, user)
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, joined.ID, events[0].ID)
}

func TestDeleteEventAdminOnly(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	event := f.addEvent(t, 8)
	admin := f.users.addUser(&models.User{Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin})

	err := f.svc.Delete(ctx, event.ID, f.creator.ID)
	assert.ErrorIs(t, err, ErrAdminOnly)

	err = f.svc.Delete(ctx, event.ID, admin.ID)
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, event.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	err = f.svc.Delete(ctx, event.ID, admin.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRemoveParticipantAdminOnly(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	event := f.addEvent(t, 8)
	admin := f.users.addUser(&models.User{Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin})
	user := uuid.New()
	f.events.addParticipant(event.ID, user, models.StatusApproved, 0)

	_, err := f.svc.RemoveParticipant(ctx, event.ID, f.creator.ID, user)
	assert.ErrorIs(t, err, ErrAdminOnly)

	updated, err := f.svc.RemoveParticipant(ctx, event.ID, admin.ID, user)
	require.NoError(t, err)
	assert.Empty(t, updated.Participants)

	_, err = f.svc.RemoveParticipant(ctx, event.ID, admin.ID, user)
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}
