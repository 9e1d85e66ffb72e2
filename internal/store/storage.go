// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"time"

	"github.com/kasaserena/serena-go/internal/model"
)

// ErrNotFound is returned when a lookup misses. Handlers translate it to
// HTTP 404.
var ErrNotFound = errors.New("store: not found")

// ErrConflict is returned when an insert violates a uniqueness constraint
// (duplicate username or email). Handlers translate it to HTTP 400.
var ErrConflict = errors.New("store: conflict")

// CreateUserParams holds the fields for creating a user.
type CreateUserParams struct {
	Username       string
	Email          string
	PasswordHash   string
	FullName       string
	Role           string
	IsProfessional bool
}

// UpdateUserProfileParams holds the mutable profile fields.
type UpdateUserProfileParams struct {
	ID             int64
	Email          string
	FullName       string
	IsProfessional bool
}

// UpdateUserStripeParams holds Stripe identifiers for a user.
type UpdateUserStripeParams struct {
	ID                   int64
	StripeCustomerID     string
	StripeSubscriptionID string
}

// CreateProjectParams holds the fields for creating a project.
type CreateProjectParams struct {
	UserID      int64
	Name        string
	Description string
	Type        string
}

// UpdateProjectParams holds optional project updates. Nil fields are left
// unchanged (load-merge-persist, no optimistic concurrency).
type UpdateProjectParams struct {
	Name                  *string
	Description           *string
	Status                *string
	Cost                  *int64
	EstimatedDeliveryTime *string
	ImageURL              *string
	AIAnalysis            *string
	MaterialsList         *string
}

// CreateMaterialParams holds the fields for seeding a catalog material.
type CreateMaterialParams struct {
	Name          string
	Category      string
	Type          string
	Color         string
	Finish        string
	Unit          string
	Price         float64
	Availability  string
	DistributorID int64
	ImageURL      string
}

// CreateDistributorParams holds the fields for seeding a distributor.
type CreateDistributorParams struct {
	Name        string
	Location    string
	Description string
	Status      string
	ImageURL    string
	ContactInfo string
}

// CreateMessageParams holds a contact-form submission.
type CreateMessageParams struct {
	Name       string
	Email      string
	Subject    string
	Message    string
	Subscribed bool
}

// CreateQuoteParams holds the fields for creating a quote request.
type CreateQuoteParams struct {
	UserID    int64
	ProjectID *int64
	Details   string
}

// CreateEventParams holds an event log entry.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	UserID    *int64
	Metadata  string
	CreatedAt time.Time
}

// CreateAIRequestParams holds a usage analytics record.
type CreateAIRequestParams struct {
	Route      string
	Provider   string
	DeviceType string
	Country    string
	DurationMS int64
	Status     int
}

// Stats aggregates counters for the admin dashboard.
type Stats struct {
	Users          int64 `json:"users"`
	Projects       int64 `json:"projects"`
	Quotes         int64 `json:"quotes"`
	PendingQuotes  int64 `json:"pendingQuotes"`
	UnreadMessages int64 `json:"unreadMessages"`
	AIRequests24h  int64 `json:"aiRequests24h"`
}

// Storage is the persistence interface covering every entity. Two
// implementations exist: SQLiteStore (production) and MemStore (local
// development and tests). Both keep assigned ids monotonic for the process
// lifetime and return ErrNotFound on a missed lookup.
type Storage interface {
	// Users
	CreateUser(ctx context.Context, p CreateUserParams) (model.User, error)
	GetUserByID(ctx context.Context, id int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	UpdateUserProfile(ctx context.Context, p UpdateUserProfileParams) (model.User, error)
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
	UpdateUserStripeInfo(ctx context.Context, p UpdateUserStripeParams) (model.User, error)

	// Projects
	CreateProject(ctx context.Context, p CreateProjectParams) (model.Project, error)
	GetProjectByID(ctx context.Context, id int64) (model.Project, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	ListProjectsByUser(ctx context.Context, userID int64) ([]model.Project, error)
	UpdateProject(ctx context.Context, id int64, p UpdateProjectParams) (model.Project, error)
	DeleteProject(ctx context.Context, id int64) error

	// Materials (catalog, seed data)
	CreateMaterial(ctx context.Context, p CreateMaterialParams) (model.Material, error)
	GetMaterialByID(ctx context.Context, id int64) (model.Material, error)
	ListMaterials(ctx context.Context) ([]model.Material, error)
	ListMaterialsByType(ctx context.Context, materialType string) ([]model.Material, error)

	// Distributors (catalog, seed data)
	CreateDistributor(ctx context.Context, p CreateDistributorParams) (model.Distributor, error)
	GetDistributorByID(ctx context.Context, id int64) (model.Distributor, error)
	ListDistributors(ctx context.Context) ([]model.Distributor, error)

	// Messages
	CreateMessage(ctx context.Context, p CreateMessageParams) (model.Message, error)
	ListMessages(ctx context.Context) ([]model.Message, error)
	MarkMessageRead(ctx context.Context, id int64) error

	// Quotes
	CreateQuote(ctx context.Context, p CreateQuoteParams) (model.Quote, error)
	GetQuoteByID(ctx context.Context, id int64) (model.Quote, error)
	ListQuotes(ctx context.Context) ([]model.Quote, error)
	ListQuotesByUser(ctx context.Context, userID int64) ([]model.Quote, error)
	UpdateQuoteStatus(ctx context.Context, id int64, status string, totalCost *int64) (model.Quote, error)

	// Event log
	CreateEvent(ctx context.Context, p CreateEventParams) (model.Event, error)
	DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// AI usage analytics
	CreateAIRequest(ctx context.Context, p CreateAIRequestParams) (model.AIRequest, error)
	CountAIRequestsSince(ctx context.Context, since time.Time) (int64, error)
	DeleteAIRequestsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Admin dashboard
	GetStats(ctx context.Context) (Stats, error)
}
