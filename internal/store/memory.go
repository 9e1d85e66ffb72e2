// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kasaserena/serena-go/internal/model"
)

// MemStore is an in-memory Storage implementation used for local
// development and tests. All methods are safe for concurrent use. Assigned
// ids are monotonic and never reused, matching SQLite AUTOINCREMENT.
type MemStore struct {
	mu sync.Mutex

	users        map[int64]model.User
	projects     map[int64]model.Project
	materials    map[int64]model.Material
	distributors map[int64]model.Distributor
	messages     map[int64]model.Message
	quotes       map[int64]model.Quote
	events       map[int64]model.Event
	aiRequests   map[int64]model.AIRequest

	nextUserID        int64
	nextProjectID     int64
	nextMaterialID    int64
	nextDistributorID int64
	nextMessageID     int64
	nextQuoteID       int64
	nextEventID       int64
	nextAIRequestID   int64
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		users:        make(map[int64]model.User),
		projects:     make(map[int64]model.Project),
		materials:    make(map[int64]model.Material),
		distributors: make(map[int64]model.Distributor),
		messages:     make(map[int64]model.Message),
		quotes:       make(map[int64]model.Quote),
		events:       make(map[int64]model.Event),
		aiRequests:   make(map[int64]model.AIRequest),
	}
}

// ---- Users ----

func (s *MemStore) CreateUser(_ context.Context, p CreateUserParams) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == p.Username || u.Email == p.Email {
			return model.User{}, fmt.Errorf("%w: duplicate username or email", ErrConflict)
		}
	}

	role := p.Role
	if role == "" {
		role = model.RoleUser
	}
	s.nextUserID++
	now := time.Now().UTC()
	u := model.User{
		ID:             s.nextUserID,
		Username:       p.Username,
		Email:          p.Email,
		PasswordHash:   p.PasswordHash,
		FullName:       nullString(p.FullName),
		Role:           role,
		IsProfessional: p.IsProfessional,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *MemStore) GetUserByID(_ context.Context, id int64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemStore) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

func (s *MemStore) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

func (s *MemStore) UpdateUserProfile(_ context.Context, p UpdateUserProfileParams) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[p.ID]
	if !ok {
		return model.User{}, ErrNotFound
	}
	for id, other := range s.users {
		if id != p.ID && other.Email == p.Email {
			return model.User{}, fmt.Errorf("%w: duplicate email", ErrConflict)
		}
	}
	u.Email = p.Email
	u.FullName = nullString(p.FullName)
	u.IsProfessional = p.IsProfessional
	u.UpdatedAt = time.Now().UTC()
	s.users[u.ID] = u
	return u, nil
}

func (s *MemStore) UpdateUserPassword(_ context.Context, id int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return nil
}

func (s *MemStore) UpdateUserStripeInfo(_ context.Context, p UpdateUserStripeParams) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[p.ID]
	if !ok {
		return model.User{}, ErrNotFound
	}
	u.StripeCustomerID = nullString(p.StripeCustomerID)
	u.StripeSubscriptionID = nullString(p.StripeSubscriptionID)
	u.UpdatedAt = time.Now().UTC()
	s.users[u.ID] = u
	return u, nil
}

// ---- Projects ----

func (s *MemStore) CreateProject(_ context.Context, p CreateProjectParams) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextProjectID++
	now := time.Now().UTC()
	proj := model.Project{
		ID:          s.nextProjectID,
		UserID:      p.UserID,
		Name:        p.Name,
		Description: nullString(p.Description),
		Type:        p.Type,
		Status:      model.ProjectStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.projects[proj.ID] = proj
	return proj, nil
}

func (s *MemStore) GetProjectByID(_ context.Context, id int64) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return model.Project{}, ErrNotFound
	}
	return p, nil
}

func (s *MemStore) ListProjects(_ context.Context) ([]model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var projects []model.Project
	for _, p := range s.projects {
		projects = append(projects, p)
	}
	sortNewestFirst(projects, func(p model.Project) (time.Time, int64) { return p.CreatedAt, p.ID })
	return projects, nil
}

func (s *MemStore) ListProjectsByUser(_ context.Context, userID int64) ([]model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var projects []model.Project
	for _, p := range s.projects {
		if p.UserID == userID {
			projects = append(projects, p)
		}
	}
	sortNewestFirst(projects, func(p model.Project) (time.Time, int64) { return p.CreatedAt, p.ID })
	return projects, nil
}

func (s *MemStore) UpdateProject(_ context.Context, id int64, p UpdateProjectParams) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.projects[id]
	if !ok {
		return model.Project{}, ErrNotFound
	}
	merged := mergeProject(existing, p)
	merged.UpdatedAt = time.Now().UTC()
	s.projects[id] = merged
	return merged, nil
}

func (s *MemStore) DeleteProject(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

// ---- Materials ----

func (s *MemStore) CreateMaterial(_ context.Context, p CreateMaterialParams) (model.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	availability := p.Availability
	if availability == "" {
		availability = model.MaterialAvailable
	}
	s.nextMaterialID++
	m := model.Material{
		ID:            s.nextMaterialID,
		Name:          p.Name,
		Category:      p.Category,
		Type:          p.Type,
		Color:         p.Color,
		Finish:        p.Finish,
		Unit:          p.Unit,
		Price:         p.Price,
		Availability:  availability,
		DistributorID: p.DistributorID,
		ImageURL:      nullString(p.ImageURL),
	}
	s.materials[m.ID] = m
	return m, nil
}

func (s *MemStore) GetMaterialByID(_ context.Context, id int64) (model.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.materials[id]
	if !ok {
		return model.Material{}, ErrNotFound
	}
	return m, nil
}

func (s *MemStore) ListMaterials(_ context.Context) ([]model.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var materials []model.Material
	for _, m := range s.materials {
		materials = append(materials, m)
	}
	sort.Slice(materials, func(i, j int) bool { return materials[i].Name < materials[j].Name })
	return materials, nil
}

func (s *MemStore) ListMaterialsByType(_ context.Context, materialType string) ([]model.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var materials []model.Material
	for _, m := range s.materials {
		if m.Type == materialType {
			materials = append(materials, m)
		}
	}
	sort.Slice(materials, func(i, j int) bool { return materials[i].Name < materials[j].Name })
	return materials, nil
}

// ---- Distributors ----

func (s *MemStore) CreateDistributor(_ context.Context, p CreateDistributorParams) (model.Distributor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := p.Status
	if status == "" {
		status = "active"
	}
	s.nextDistributorID++
	d := model.Distributor{
		ID:          s.nextDistributorID,
		Name:        p.Name,
		Location:    p.Location,
		Description: nullString(p.Description),
		Status:      status,
		ImageURL:    nullString(p.ImageURL),
		ContactInfo: nullString(p.ContactInfo),
	}
	s.distributors[d.ID] = d
	return d, nil
}

func (s *MemStore) GetDistributorByID(_ context.Context, id int64) (model.Distributor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.distributors[id]
	if !ok {
		return model.Distributor{}, ErrNotFound
	}
	return d, nil
}

func (s *MemStore) ListDistributors(_ context.Context) ([]model.Distributor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var distributors []model.Distributor
	for _, d := range s.distributors {
		distributors = append(distributors, d)
	}
	sort.Slice(distributors, func(i, j int) bool { return distributors[i].Name < distributors[j].Name })
	return distributors, nil
}

// ---- Messages ----

func (s *MemStore) CreateMessage(_ context.Context, p CreateMessageParams) (model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMessageID++
	m := model.Message{
		ID:         s.nextMessageID,
		Name:       p.Name,
		Email:      p.Email,
		Subject:    p.Subject,
		Message:    p.Message,
		Subscribed: p.Subscribed,
		CreatedAt:  time.Now().UTC(),
	}
	s.messages[m.ID] = m
	return m, nil
}

func (s *MemStore) ListMessages(_ context.Context) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var messages []model.Message
	for _, m := range s.messages {
		messages = append(messages, m)
	}
	sortNewestFirst(messages, func(m model.Message) (time.Time, int64) { return m.CreatedAt, m.ID })
	return messages, nil
}

func (s *MemStore) MarkMessageRead(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return ErrNotFound
	}
	m.IsRead = true
	s.messages[id] = m
	return nil
}

// ---- Quotes ----

func (s *MemStore) CreateQuote(_ context.Context, p CreateQuoteParams) (model.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextQuoteID++
	q := model.Quote{
		ID:        s.nextQuoteID,
		UserID:    p.UserID,
		ProjectID: nullInt64Ptr(p.ProjectID),
		Details:   p.Details,
		Status:    model.QuoteStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	s.quotes[q.ID] = q
	return q, nil
}

func (s *MemStore) GetQuoteByID(_ context.Context, id int64) (model.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.quotes[id]
	if !ok {
		return model.Quote{}, ErrNotFound
	}
	return q, nil
}

func (s *MemStore) ListQuotes(_ context.Context) ([]model.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var quotes []model.Quote
	for _, q := range s.quotes {
		quotes = append(quotes, q)
	}
	sortNewestFirst(quotes, func(q model.Quote) (time.Time, int64) { return q.CreatedAt, q.ID })
	return quotes, nil
}

func (s *MemStore) ListQuotesByUser(_ context.Context, userID int64) ([]model.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var quotes []model.Quote
	for _, q := range s.quotes {
		if q.UserID == userID {
			quotes = append(quotes, q)
		}
	}
	sortNewestFirst(quotes, func(q model.Quote) (time.Time, int64) { return q.CreatedAt, q.ID })
	return quotes, nil
}

func (s *MemStore) UpdateQuoteStatus(_ context.Context, id int64, status string, totalCost *int64) (model.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.quotes[id]
	if !ok {
		return model.Quote{}, ErrNotFound
	}
	q.Status = status
	if totalCost != nil {
		q.TotalCost = nullInt64Ptr(totalCost)
	}
	s.quotes[id] = q
	return q, nil
}

// ---- Events ----

func (s *MemStore) CreateEvent(_ context.Context, p CreateEventParams) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	metadata := p.Metadata
	if metadata == "" {
		metadata = "{}"
	}
	s.nextEventID++
	e := model.Event{
		ID:        s.nextEventID,
		Level:     p.Level,
		Category:  p.Category,
		Message:   p.Message,
		UserID:    nullInt64Ptr(p.UserID),
		Metadata:  metadata,
		CreatedAt: createdAt,
	}
	s.events[e.ID] = e
	return e, nil
}

func (s *MemStore) DeleteEventsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, e := range s.events {
		if e.CreatedAt.Before(cutoff) {
			delete(s.events, id)
			deleted++
		}
	}
	return deleted, nil
}

// ---- AI usage analytics ----

func (s *MemStore) CreateAIRequest(_ context.Context, p CreateAIRequestParams) (model.AIRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAIRequestID++
	r := model.AIRequest{
		ID:         s.nextAIRequestID,
		Route:      p.Route,
		Provider:   p.Provider,
		DeviceType: p.DeviceType,
		Country:    p.Country,
		DurationMS: p.DurationMS,
		Status:     p.Status,
		CreatedAt:  time.Now().UTC(),
	}
	s.aiRequests[r.ID] = r
	return r, nil
}

func (s *MemStore) CountAIRequestsSince(_ context.Context, since time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, r := range s.aiRequests {
		if !r.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *MemStore) DeleteAIRequestsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, r := range s.aiRequests {
		if r.CreatedAt.Before(cutoff) {
			delete(s.aiRequests, id)
			deleted++
		}
	}
	return deleted, nil
}

// ---- Admin dashboard ----

func (s *MemStore) GetStats(_ context.Context) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		Users:    int64(len(s.users)),
		Projects: int64(len(s.projects)),
		Quotes:   int64(len(s.quotes)),
	}
	for _, q := range s.quotes {
		if q.Status == model.QuoteStatusPending {
			st.PendingQuotes++
		}
	}
	for _, m := range s.messages {
		if !m.IsRead {
			st.UnreadMessages++
		}
	}
	since := time.Now().UTC().Add(-24 * time.Hour)
	for _, r := range s.aiRequests {
		if !r.CreatedAt.Before(since) {
			st.AIRequests24h++
		}
	}
	return st, nil
}

// sortNewestFirst orders records by creation time descending, falling back
// to id so records created within the same clock tick keep a stable order.
func sortNewestFirst[T any](items []T, key func(T) (time.Time, int64)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti.Equal(tj) {
			return idi > idj
		}
		return ti.After(tj)
	})
}
