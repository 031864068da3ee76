package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"clubhub/internal/models"
	"clubhub/internal/repository"

	"github.com/google/uuid"
)

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
	depts  *memDepartments
}

func newMemUsers(depts *memDepartments) *memUsers {
	return &memUsers{byID: map[int64]*models.User{}, depts: depts}
}

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	user.ID = m.nextID
	cp := *user
	m.byID[user.ID] = &cp
	return nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	var id int64
	for _, u := range m.byID {
		if u.Email == email {
			id = u.ID
		}
	}
	m.mu.Unlock()
	if id == 0 {
		return nil, repository.ErrNotFound
	}
	return m.GetByIDWithDepartment(ctx, id)
}

func (m *memUsers) GetByIDWithDepartment(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	u, ok := m.byID[id]
	m.mu.Unlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	cp.Department = nil
	if cp.DepartmentID != nil && m.depts != nil {
		if d, err := m.depts.GetByID(ctx, *cp.DepartmentID); err == nil {
			cp.Department = d
		}
	}
	return &cp, nil
}

type memDepartments struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Department
}

func newMemDepartments(names ...string) *memDepartments {
	m := &memDepartments{byID: map[int64]*models.Department{}}
	for _, n := range names {
		_ = m.Create(context.Background(), &models.Department{Name: n})
	}
	return m
}

func (m *memDepartments) Create(_ context.Context, dept *models.Department) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.byID {
		if d.Name == dept.Name {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	dept.ID = m.nextID
	cp := *dept
	m.byID[dept.ID] = &cp
	return nil
}

func (m *memDepartments) GetByID(_ context.Context, id int64) (*models.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memDepartments) List(_ context.Context) ([]*models.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Department, 0, len(m.byID))
	for _, d := range m.byID {
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memMembership struct {
	userID, clubID int64
}

type memClubs struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64]*models.Club
	members map[memMembership]time.Time
	users   *memUsers
}

func newMemClubs(users *memUsers) *memClubs {
	return &memClubs{
		byID:    map[int64]*models.Club{},
		members: map[memMembership]time.Time{},
		users:   users,
	}
}

func (m *memClubs) Create(_ context.Context, club *models.Club) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byID {
		if c.Name == club.Name {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	club.ID = m.nextID
	cp := *club
	m.byID[club.ID] = &cp
	return nil
}

func (m *memClubs) Update(_ context.Context, club *models.Club) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[club.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *club
	m.byID[club.ID] = &cp
	return nil
}

func (m *memClubs) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	for k := range m.members {
		if k.clubID == id {
			delete(m.members, k)
		}
	}
	return nil
}

func (m *memClubs) GetByID(_ context.Context, id int64) (*models.Club, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memClubs) list(keep func(*models.Club) bool) []*models.Club {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Club
	for _, c := range m.byID {
		if keep(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memClubs) ListAll(_ context.Context) ([]*models.Club, error) {
	return m.list(func(*models.Club) bool { return true }), nil
}

func (m *memClubs) ListActive(_ context.Context) ([]*models.Club, error) {
	return m.list(func(c *models.Club) bool { return c.IsActive }), nil
}

func (m *memClubs) ListByMember(_ context.Context, userID int64) ([]*models.Club, error) {
	return m.list(func(c *models.Club) bool {
		_, ok := m.members[memMembership{userID, c.ID}]
		return ok
	}), nil
}

func (m *memClubs) AddMember(_ context.Context, userID, clubID int64, joinedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[clubID]; !ok {
		return repository.ErrForeignKey
	}
	if m.users != nil {
		if _, ok := m.users.byID[userID]; !ok {
			return repository.ErrForeignKey
		}
	}
	key := memMembership{userID, clubID}
	if _, ok := m.members[key]; ok {
		return repository.ErrDuplicate
	}
	m.members[key] = joinedAt
	return nil
}

func (m *memClubs) RemoveMember(_ context.Context, userID, clubID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memMembership{userID, clubID}
	if _, ok := m.members[key]; !ok {
		return repository.ErrNotFound
	}
	delete(m.members, key)
	return nil
}

func (m *memClubs) ListMembers(_ context.Context, clubID int64) ([]*models.ClubMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.ClubMember
	for k, joined := range m.members {
		if k.clubID != clubID {
			continue
		}
		member := &models.ClubMember{UserID: k.userID, JoinedAt: joined}
		if m.users != nil {
			if u, ok := m.users.byID[k.userID]; ok {
				member.Username = u.Username
				member.Email = u.Email
			}
		}
		out = append(out, member)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

type memEvents struct {
	nextID int64
	byID   map[int64]*models.Event
}

func newMemEvents() *memEvents {
	return &memEvents{byID: map[int64]*models.Event{}}
}

func (m *memEvents) Create(_ context.Context, event *models.Event) error {
	m.nextID++
	event.ID = m.nextID
	cp := *event
	m.byID[event.ID] = &cp
	return nil
}

func (m *memEvents) GetByID(_ context.Context, id int64) (*models.Event, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return e, nil
}

func (m *memEvents) ListByClub(_ context.Context, clubID int64) ([]*models.Event, error) {
	var out []*models.Event
	for _, e := range m.byID {
		if e.ClubID == clubID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (m *memEvents) ListUpcoming(_ context.Context, from time.Time, limit uint64) ([]*models.Event, error) {
	var out []*models.Event
	for _, e := range m.byID {
		if !e.StartsAt.Before(from) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	if limit > 0 && uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memEvents) Delete(_ context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memAnnouncements struct {
	nextID int64
	byID   map[int64]*models.Announcement
}

func newMemAnnouncementStore() *memAnnouncements {
	return &memAnnouncements{byID: map[int64]*models.Announcement{}}
}

func (m *memAnnouncements) Create(_ context.Context, a *models.Announcement) error {
	m.nextID++
	a.ID = m.nextID
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

func (m *memAnnouncements) ListByClub(_ context.Context, clubID int64, limit, offset int) ([]*models.Announcement, error) {
	var out []*models.Announcement
	for _, a := range m.byID {
		if a.ClubID == clubID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memAnnouncements) Delete(_ context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memNotifications struct {
	items     []*models.Notification
	createErr error
}

func (m *memNotifications) CreateBatch(_ context.Context, notifications []*models.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.items = append(m.items, notifications...)
	return nil
}

func (m *memNotifications) ListByUser(_ context.Context, userID int64, unreadOnly bool, limit, offset int) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range m.items {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memNotifications) MarkRead(_ context.Context, userID int64, id uuid.UUID) error {
	for _, n := range m.items {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

type sentMail struct {
	to, subject, body string
}

type recordingMailer struct {
	sent    []sentMail
	failFor map[string]bool
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	if m.failFor[to] {
		return errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type notifyCall struct {
	clubID      int64
	title, body string
}

type recordingNotifier struct {
	calls []notifyCall
	err   error
}

func (n *recordingNotifier) NotifyClubMembers(_ context.Context, clubID int64, title, body string) error {
	n.calls = append(n.calls, notifyCall{clubID, title, body})
	return n.err
}
