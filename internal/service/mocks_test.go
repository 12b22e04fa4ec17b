package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yichenzhao/buddyup/internal/models"
)

// fakeEventRepo is an in-memory EventRepository. Transact serializes callers
// on a mutex the way the real implementation serializes them on the event
// row lock; methods taking a tx argument assume that lock is held.
type fakeEventRepo struct {
	mu           sync.Mutex
	events       map[uuid.UUID]*models.Event
	participants map[uuid.UUID][]*models.Participant
	seq          int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:       make(map[uuid.UUID]*models.Event),
		participants: make(map[uuid.UUID][]*models.Participant),
	}
}

func (r *fakeEventRepo) addEvent(event *models.Event) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	r.events[event.ID] = event
}

func (r *fakeEventRepo) addParticipant(eventID, userID uuid.UUID, status models.ParticipantStatus, cancelCount int) {
	r.seq++
	r.participants[eventID] = append(r.participants[eventID], &models.Participant{
		ID:          uuid.New(),
		EventID:     eventID,
		UserID:      userID,
		Status:      status,
		CancelCount: cancelCount,
		CreatedAt:   time.Unix(int64(r.seq), 0),
	})
}

func (r *fakeEventRepo) Transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(nil)
}

func (r *fakeEventRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *event
	roster := append([]*models.Participant(nil), r.participants[id]...)
	sort.Slice(roster, func(i, j int) bool { return roster[i].CreatedAt.Before(roster[j].CreatedAt) })
	for _, p := range roster {
		copied.Participants = append(copied.Participants, *p)
	}
	return &copied, nil
}

func (r *fakeEventRepo) FindAll(ctx context.Context, category string) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var events []models.Event
	for id, event := range r.events {
		if category != "" && event.Category != category {
			continue
		}
		copied := *event
		for _, p := range r.participants[id] {
			copied.Participants = append(copied.Participants, *p)
		}
		events = append(events, copied)
	}
	return events, nil
}

func (r *fakeEventRepo) FindByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var events []models.Event
	for id, event := range r.events {
		if event.CreatorID != creatorID {
			continue
		}
		copied := *event
		for _, p := range r.participants[id] {
			copied.Participants = append(copied.Participants, *p)
		}
		events = append(events, copied)
	}
	return events, nil
}

func (r *fakeEventRepo) FindByParticipant(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var events []models.Event
	for id, event := range r.events {
		joined := false
		for _, p := range r.participants[id] {
			if p.UserID == userID {
				joined = true
				break
			}
		}
		if !joined {
			continue
		}
		copied := *event
		for _, p := range r.participants[id] {
			copied.Participants = append(copied.Participants, *p)
		}
		events = append(events, copied)
	}
	return events, nil
}

func (r *fakeEventRepo) FindUnexpired(ctx context.Context) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var events []models.Event
	for _, event := range r.events {
		if !event.Expired {
			events = append(events, *event)
		}
	}
	return events, nil
}

func (r *fakeEventRepo) Create(ctx context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) Save(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	copied := *event
	copied.Participants = nil
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return 0, nil
	}
	delete(r.events, id)
	delete(r.participants, id)
	return 1, nil
}

func (r *fakeEventRepo) MarkExpired(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event, ok := r.events[id]; ok {
		event.Expired = true
	}
	return nil
}

func (r *fakeEventRepo) FindParticipant(ctx context.Context, tx *gorm.DB, eventID, userID uuid.UUID) (*models.Participant, error) {
	for _, p := range r.participants[eventID] {
		if p.UserID == userID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEventRepo) CreateParticipant(ctx context.Context, tx *gorm.DB, participant *models.Participant) error {
	if participant.ID == uuid.Nil {
		participant.ID = uuid.New()
	}
	r.seq++
	copied := *participant
	copied.CreatedAt = time.Unix(int64(r.seq), 0)
	r.participants[participant.EventID] = append(r.participants[participant.EventID], &copied)
	return nil
}

func (r *fakeEventRepo) SaveParticipant(ctx context.Context, tx *gorm.DB, participant *models.Participant) error {
	for i, p := range r.participants[participant.EventID] {
		if p.UserID == participant.UserID {
			copied := *participant
			copied.CreatedAt = p.CreatedAt
			r.participants[participant.EventID][i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeEventRepo) DeleteParticipant(ctx context.Context, eventID, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roster := r.participants[eventID]
	for i, p := range roster {
		if p.UserID == userID {
			r.participants[eventID] = append(roster[:i], roster[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeEventRepo) CountParticipants(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, status models.ParticipantStatus) (int64, error) {
	var count int64
	for _, p := range r.participants[eventID] {
		if p.Status == status {
			count++
		}
	}
	return count, nil
}

// participantStatus is a test helper reading the stored roster directly.
func (r *fakeEventRepo) participantStatus(eventID, userID uuid.UUID) (models.ParticipantStatus, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants[eventID] {
		if p.UserID == userID {
			return p.Status, p.CancelCount
		}
	}
	return "", -1
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*models.User
	failIncrement bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *fakeUserRepo) addUser(user *models.User) *models.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Save(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) IncrementScore(ctx context.Context, id uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failIncrement {
		return gorm.ErrInvalidDB
	}
	if user, ok := r.users[id]; ok {
		user.Score += delta
	}
	return nil
}

func (r *fakeUserRepo) score(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		return user.Score
	}
	return 0
}

type notifyCall struct {
	recipients []uuid.UUID
	typ        models.NotificationType
	title      string
	message    string
}

// fakeNotifier records fan-out calls.
type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

func (n *fakeNotifier) Notify(ctx context.Context, recipientIDs []uuid.UUID, senderID *uuid.UUID, event *models.Event, typ models.NotificationType, title, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{recipients: recipientIDs, typ: typ, title: title, message: message})
	return nil
}
