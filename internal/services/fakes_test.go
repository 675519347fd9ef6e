package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"eventmanager/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeTransactor runs fn directly and counts transactions.
type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

func paginate[T any](items []T, params domain.PaginationParams) []T {
	total := len(items)
	offset := params.Offset()
	if offset > total {
		offset = total
	}
	end := offset + params.PageSize
	if end > total {
		end = total
	}
	page := items[offset:end]
	if page == nil {
		page = []T{}
	}
	return page
}

// fakeEventRepo is an in-memory domain.EventRepository. Reads return copies.
type fakeEventRepo struct {
	byID   map[string]*domain.Event
	nextID int
	err    error
	locked []string
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{byID: make(map[string]*domain.Event)}
	for _, e := range events {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEventRepo) get(id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return f.get(id)
}

func (f *fakeEventRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	f.locked = append(f.locked, id)
	return f.get(id)
}

func (f *fakeEventRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.Event, error) {
	out := make([]*domain.Event, 0, len(ids))
	for _, id := range ids {
		if e, err := f.get(id); err == nil {
			out = append(out, e)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	stored, ok := f.byID[e.ID]
	if !ok {
		return domain.ErrEventNotFound
	}
	cp := *e
	cp.ConfirmedRequests = stored.ConfirmedRequests
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) SetConfirmedRequests(ctx context.Context, id string, confirmed int) error {
	e, ok := f.byID[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	e.ConfirmedRequests = confirmed
	return nil
}

func (f *fakeEventRepo) filtered(keep func(e *domain.Event) bool, params domain.PaginationParams) ([]*domain.Event, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var out []*domain.Event
	for _, e := range f.byID {
		if keep(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, params), len(out), nil
}

func (f *fakeEventRepo) ListByInitiator(ctx context.Context, initiatorID string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	return f.filtered(func(e *domain.Event) bool { return e.InitiatorID == initiatorID }, params)
}

func (f *fakeEventRepo) SearchAdmin(ctx context.Context, af domain.AdminEventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	return f.filtered(func(e *domain.Event) bool { return true }, params)
}

func (f *fakeEventRepo) SearchPublic(ctx context.Context, pf domain.PublicEventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	return f.filtered(func(e *domain.Event) bool { return e.State == domain.EventStatePublished }, params)
}

// fakeRequestRepo is an in-memory domain.ParticipationRequestRepository. Reads return copies.
type fakeRequestRepo struct {
	byID        map[string]*domain.ParticipationRequest
	nextID      int
	updateErr   error
	updateCalls int
	createErr   error
}

func newFakeRequestRepo(requests ...*domain.ParticipationRequest) *fakeRequestRepo {
	f := &fakeRequestRepo{byID: make(map[string]*domain.ParticipationRequest)}
	for _, pr := range requests {
		f.byID[pr.ID] = pr
	}
	return f
}

func (f *fakeRequestRepo) status(id string) domain.RequestStatus {
	return f.byID[id].Status
}

func (f *fakeRequestRepo) Create(ctx context.Context, pr *domain.ParticipationRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	pr.ID = fmt.Sprintf("pr-new-%d", f.nextID)
	cp := *pr
	f.byID[pr.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id string) (*domain.ParticipationRequest, error) {
	pr, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	cp := *pr
	return &cp, nil
}

func (f *fakeRequestRepo) ListByIDsForUpdate(ctx context.Context, ids []string) ([]*domain.ParticipationRequest, error) {
	out := make([]*domain.ParticipationRequest, 0, len(ids))
	for _, id := range ids {
		if pr, ok := f.byID[id]; ok {
			cp := *pr
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) list(keep func(pr *domain.ParticipationRequest) bool) []*domain.ParticipationRequest {
	out := make([]*domain.ParticipationRequest, 0)
	for _, pr := range f.byID {
		if keep(pr) {
			cp := *pr
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeRequestRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.ParticipationRequest, error) {
	return f.list(func(pr *domain.ParticipationRequest) bool { return pr.EventID == eventID }), nil
}

func (f *fakeRequestRepo) ListByRequester(ctx context.Context, requesterID string) ([]*domain.ParticipationRequest, error) {
	return f.list(func(pr *domain.ParticipationRequest) bool { return pr.RequesterID == requesterID }), nil
}

func (f *fakeRequestRepo) ExistsByRequesterAndEvent(ctx context.Context, requesterID, eventID string) (bool, error) {
	for _, pr := range f.byID {
		if pr.RequesterID == requesterID && pr.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequestRepo) UpdateStatuses(ctx context.Context, ids []string, status domain.RequestStatus) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	for _, id := range ids {
		if pr, ok := f.byID[id]; ok {
			pr.Status = status
		}
	}
	return nil
}

func (f *fakeRequestRepo) CountByEventAndStatus(ctx context.Context, eventID string, status domain.RequestStatus) (int, error) {
	n := 0
	for _, pr := range f.byID {
		if pr.EventID == eventID && pr.Status == status {
			n++
		}
	}
	return n, nil
}

// fakeUserRepo is an in-memory domain.UserRepository.
type fakeUserRepo struct {
	byID      map[string]*domain.User
	roles     map[string][]string
	nextID    int
	createErr error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[string]*domain.User), roles: make(map[string][]string)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
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
	f.nextID++
	u.ID = fmt.Sprintf("user-new-%d", f.nextID)
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) List(ctx context.Context, ids []string, params domain.PaginationParams) ([]*domain.User, int, error) {
	var out []*domain.User
	for _, u := range f.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, params), len(out), nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUserRepo) AssignRole(ctx context.Context, userID, roleID string) error {
	for _, r := range f.roles[userID] {
		if r == roleID {
			return nil
		}
	}
	f.roles[userID] = append(f.roles[userID], roleID)
	return nil
}

// fakeRoleRepo resolves role codes to ids "role-<code>" and reads assignments from a fakeUserRepo.
type fakeRoleRepo struct {
	users *fakeUserRepo
}

func (f *fakeRoleRepo) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	return &domain.Role{ID: "role-" + code, Code: code}, nil
}

func (f *fakeRoleRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	var roles []*domain.Role
	for _, id := range f.users.roles[userID] {
		roles = append(roles, &domain.Role{ID: id, Code: id[len("role-"):]})
	}
	return roles, nil
}

// fakeCategoryRepo is an in-memory domain.CategoryRepository.
type fakeCategoryRepo struct {
	byID      map[string]*domain.Category
	withEvent map[string]bool
	nextID    int
}

func newFakeCategoryRepo(categories ...*domain.Category) *fakeCategoryRepo {
	f := &fakeCategoryRepo{byID: make(map[string]*domain.Category), withEvent: make(map[string]bool)}
	for _, c := range categories {
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	for _, existing := range f.byID {
		if existing.Name == c.Name {
			return domain.ErrDuplicateCategory
		}
	}
	f.nextID++
	c.ID = fmt.Sprintf("cat-new-%d", f.nextID)
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	if _, ok := f.byID[c.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeCategoryRepo) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Category, int, error) {
	var out []*domain.Category
	for _, c := range f.byID {
		out = append(out, c)
	}
	return paginate(out, params), len(out), nil
}

func (f *fakeCategoryRepo) HasEvents(ctx context.Context, id string) (bool, error) {
	return f.withEvent[id], nil
}

// fakeEventCache is an in-memory domain.EventCache.
type fakeEventCache struct {
	byID    map[string]*domain.Event
	deleted []string
	sets    int
}

func newFakeEventCache() *fakeEventCache {
	return &fakeEventCache{byID: make(map[string]*domain.Event)}
}

func (f *fakeEventCache) Get(ctx context.Context, id string) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeEventCache) Set(ctx context.Context, e *domain.Event) error {
	f.sets++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventCache) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.byID, id)
	return nil
}

// fakeEmailService records sent emails.
type fakeEmailService struct {
	loginCodes []*domain.LoginCodeEmailData
	statuses   []*domain.RequestStatusEmailData
	err        error
}

func (f *fakeEmailService) SendLoginCode(ctx context.Context, data *domain.LoginCodeEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.loginCodes = append(f.loginCodes, data)
	return nil
}

func (f *fakeEmailService) SendRequestStatus(ctx context.Context, data *domain.RequestStatusEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.statuses = append(f.statuses, data)
	return nil
}

func futureDate() time.Time {
	return time.Now().Add(72 * time.Hour).UTC()
}
