// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kasaserena/serena-go/internal/model"
)

// SQLiteStore implements Storage on top of a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLiteStore. The database must already be
// migrated (see Migrate).
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// DB exposes the underlying connection for the session store.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// translateErr maps driver errors to the store sentinels.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func nullString(s string) model.NullString {
	return model.NullString{NullString: sql.NullString{String: s, Valid: s != ""}}
}

func nullInt64Ptr(v *int64) model.NullInt64 {
	if v == nil {
		return model.NullInt64{}
	}
	return model.NullInt64{NullInt64: sql.NullInt64{Int64: *v, Valid: true}}
}

// ---- Users ----

const userColumns = `id, username, email, password_hash, full_name, role, is_professional,
	stripe_customer_id, stripe_subscription_id, created_at, updated_at`

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Role,
		&u.IsProfessional, &u.StripeCustomerID, &u.StripeSubscriptionID, &u.CreatedAt, &u.UpdatedAt)
	return u, translateErr(err)
}

func (s *SQLiteStore) CreateUser(ctx context.Context, p CreateUserParams) (model.User, error) {
	role := p.Role
	if role == "" {
		role = model.RoleUser
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `INSERT INTO users
		(username, email, password_hash, full_name, role, is_professional, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Username, p.Email, p.PasswordHash, nullString(p.FullName), role, p.IsProfessional, now, now)
	if err != nil {
		return model.User{}, translateErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return s.GetUserByID(ctx, id)
}

func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (s *SQLiteStore) UpdateUserProfile(ctx context.Context, p UpdateUserProfileParams) (model.User, error) {
	_, err := s.db.ExecContext(ctx, `UPDATE users
		SET email = ?, full_name = ?, is_professional = ?, updated_at = ?
		WHERE id = ?`,
		p.Email, nullString(p.FullName), p.IsProfessional, time.Now().UTC(), p.ID)
	if err != nil {
		return model.User{}, translateErr(err)
	}
	return s.GetUserByID(ctx, p.ID)
}

func (s *SQLiteStore) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id)
	return translateErr(err)
}

func (s *SQLiteStore) UpdateUserStripeInfo(ctx context.Context, p UpdateUserStripeParams) (model.User, error) {
	_, err := s.db.ExecContext(ctx, `UPDATE users
		SET stripe_customer_id = ?, stripe_subscription_id = ?, updated_at = ?
		WHERE id = ?`,
		nullString(p.StripeCustomerID), nullString(p.StripeSubscriptionID), time.Now().UTC(), p.ID)
	if err != nil {
		return model.User{}, translateErr(err)
	}
	return s.GetUserByID(ctx, p.ID)
}

// ---- Projects ----

const projectColumns = `id, user_id, name, description, type, status, cost,
	estimated_delivery_time, image_url, ai_analysis, materials_list, created_at, updated_at`

func scanProjectRow(scan func(dest ...any) error) (model.Project, error) {
	var p model.Project
	err := scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Type, &p.Status, &p.Cost,
		&p.EstimatedDeliveryTime, &p.ImageURL, &p.AIAnalysis, &p.MaterialsList, &p.CreatedAt, &p.UpdatedAt)
	return p, translateErr(err)
}

func (s *SQLiteStore) CreateProject(ctx context.Context, p CreateProjectParams) (model.Project, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `INSERT INTO projects
		(user_id, name, description, type, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.Name, nullString(p.Description), p.Type, model.ProjectStatusDraft, now, now)
	if err != nil {
		return model.Project{}, translateErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Project{}, err
	}
	return s.GetProjectByID(ctx, id)
}

func (s *SQLiteStore) GetProjectByID(ctx context.Context, id int64) (model.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return scanProjectRow(row.Scan)
}

func (s *SQLiteStore) listProjects(ctx context.Context, query string, args ...any) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProjectRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *SQLiteStore) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.listProjects(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id DESC`)
}

func (s *SQLiteStore) ListProjectsByUser(ctx context.Context, userID int64) ([]model.Project, error) {
	return s.listProjects(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

func (s *SQLiteStore) UpdateProject(ctx context.Context, id int64, p UpdateProjectParams) (model.Project, error) {
	// Load-merge-persist; there is no optimistic concurrency control.
	existing, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return model.Project{}, err
	}

	merged := mergeProject(existing, p)

	_, err = s.db.ExecContext(ctx, `UPDATE projects
		SET name = ?, description = ?, status = ?, cost = ?, estimated_delivery_time = ?,
		    image_url = ?, ai_analysis = ?, materials_list = ?, updated_at = ?
		WHERE id = ?`,
		merged.Name, merged.Description, merged.Status, merged.Cost, merged.EstimatedDeliveryTime,
		merged.ImageURL, merged.AIAnalysis, merged.MaterialsList, time.Now().UTC(), id)
	if err != nil {
		return model.Project{}, translateErr(err)
	}
	return s.GetProjectByID(ctx, id)
}

// mergeProject applies non-nil update fields onto an existing project.
// Shared by both Storage implementations so updates behave identically.
func mergeProject(existing model.Project, p UpdateProjectParams) model.Project {
	if p.Name != nil {
		existing.Name = *p.Name
	}
	if p.Description != nil {
		existing.Description = nullString(*p.Description)
	}
	if p.Status != nil {
		existing.Status = *p.Status
	}
	if p.Cost != nil {
		existing.Cost = nullInt64Ptr(p.Cost)
	}
	if p.EstimatedDeliveryTime != nil {
		existing.EstimatedDeliveryTime = nullString(*p.EstimatedDeliveryTime)
	}
	if p.ImageURL != nil {
		existing.ImageURL = nullString(*p.ImageURL)
	}
	if p.AIAnalysis != nil {
		existing.AIAnalysis = nullString(*p.AIAnalysis)
	}
	if p.MaterialsList != nil {
		existing.MaterialsList = nullString(*p.MaterialsList)
	}
	return existing
}

func (s *SQLiteStore) DeleteProject(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return translateErr(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- Materials ----

const materialColumns = `id, name, category, type, color, finish, unit, price,
	availability, distributor_id, image_url`

func scanMaterialRow(scan func(dest ...any) error) (model.Material, error) {
	var m model.Material
	err := scan(&m.ID, &m.Name, &m.Category, &m.Type, &m.Color, &m.Finish, &m.Unit,
		&m.Price, &m.Availability, &m.DistributorID, &m.ImageURL)
	return m, translateErr(err)
}

func (s *SQLiteStore) CreateMaterial(ctx context.Context, p CreateMaterialParams) (model.Material, error) {
	availability := p.Availability
	if availability == "" {
		availability = model.MaterialAvailable
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO materials
		(name, category, type, color, finish, unit, price, availability, distributor_id, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Category, p.Type, p.Color, p.Finish, p.Unit, p.Price, availability,
		p.DistributorID, nullString(p.ImageURL))
	if err != nil {
		return model.Material{}, translateErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Material{}, err
	}
	return s.GetMaterialByID(ctx, id)
}

func (s *SQLiteStore) GetMaterialByID(ctx context.Context, id int64) (model.Material, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = ?`, id)
	return scanMaterialRow(row.Scan)
}

func (s *SQLiteStore) listMaterials(ctx context.Context, query string, args ...any) ([]model.Material, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var materials []model.Material
	for rows.Next() {
		m, err := scanMaterialRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

func (s *SQLiteStore) ListMaterials(ctx context.Context) ([]model.Material, error) {
	return s.listMaterials(ctx, `SELECT `+materialColumns+` FROM materials ORDER BY name`)
}

func (s *SQLiteStore) ListMaterialsByType(ctx context.Context, materialType string) ([]model.Material, error) {
	return s.listMaterials(ctx,
		`SELECT `+materialColumns+` FROM materials WHERE type = ? ORDER BY name`, materialType)
}

// ---- Distributors ----

const distributorColumns = `id, name, location, description, status, image_url, contact_info`

func scanDistributorRow(scan func(dest ...any) error) (model.Distributor, error) {
	var d model.Distributor
	err := scan(&d.ID, &d.Name, &d.Location, &d.Description, &d.Status, &d.ImageURL, &d.ContactInfo)
	return d, translateErr(err)
}

func (s *SQLiteStore) CreateDistributor(ctx context.Context, p CreateDistributorParams) (model.Distributor, error) {
	status := p.Status
	if status == "" {
		status = "active"
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO distributors
		(name, location, description, status, image_url, contact_info)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.Location, nullString(p.Description), status, nullString(p.ImageURL), nullString(p.ContactInfo))
	if err != nil {
		return model.Distributor{}, translateErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Distributor{}, err
	}
	return s.GetDistributorByID(ctx, id)
}

func (s *SQLiteStore) GetDistributorByID(ctx context.Context, id int64) (model.Distributor, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+distributorColumns+` FROM distributors WHERE id = ?`, id)
	return scanDistributorRow(row.Scan)
}

func (s *SQLiteStore) ListDistributors(ctx context.Context) ([]model.Distributor, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+distributorColumns+` FROM distributors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var distributors []model.Distributor
	for rows.Next() {
		d, err := scanDistributorRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		distributors = append(distributors, d)
	}
	return distributors, rows.Err()
}

// ---- Messages ----

const messageColumns = `id, name, email, subject, message, subscribed, is_read, created_at`

func scanMessageRow(scan func(dest ...any) error) (model.Message, error) {
	var m model.Message
	err := scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Subscribed, &m.IsRead, &m.CreatedAt)
	return m, translateErr(err)
}

func (s *SQLiteStore) CreateMessage(ctx context.Context, p CreateMessageParams) (model.Message, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `INSERT INTO messages
		(name, email, subject, message, subscribed, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.Email, p.Subject, p.Message, p.Subscribed, now)
	if err != nil {
		return model.Message{}, translateErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Message{}, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = ?`, id)
	return scanMessageRow(row.Scan)
}

func (s *SQLiteStore) ListMessages(ctx context.Context) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+messageColumns+` FROM messages ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var messages []model.Message
	for rows.Next() {
		m, err := scanMessageRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *SQLiteStore) MarkMessageRead(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE messages SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return translateErr(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- Quotes ----

const quoteColumns = `id, user_id, project_id, details, status, total_cost, created_at`

func scanQuoteRow(scan func(dest ...any) error) (model.Quote, error) {
	var q model.Quote
	err := scan(&q.ID, &q.UserID, &q.ProjectID, &q.Details, &q.Status, &q.TotalCost, &q.CreatedAt)
	return q, translateErr(err)
}

func (s *SQLiteStore) CreateQuote(ctx context.Context, p CreateQuoteParams) (model.Quote, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `INSERT INTO quotes
		(user_id, project_id, details, status, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.UserID, nullInt64Ptr(p.ProjectID), p.Details, model.QuoteStatusPending, now)
	if err != nil {
		return model.Quote{}, translateErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Quote{}, err
	}
	return s.GetQuoteByID(ctx, id)
}

func (s *SQLiteStore) GetQuoteByID(ctx context.Context, id int64) (model.Quote, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = ?`, id)
	return scanQuoteRow(row.Scan)
}

func (s *SQLiteStore) listQuotes(ctx context.Context, query string, args ...any) ([]model.Quote, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var quotes []model.Quote
	for rows.Next() {
		q, err := scanQuoteRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

func (s *SQLiteStore) ListQuotes(ctx context.Context) ([]model.Quote, error) {
	return s.listQuotes(ctx, `SELECT `+quoteColumns+` FROM quotes ORDER BY created_at DESC, id DESC`)
}

func (s *SQLiteStore) ListQuotesByUser(ctx context.Context, userID int64) ([]model.Quote, error) {
	return s.listQuotes(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

func (s *SQLiteStore) UpdateQuoteStatus(ctx context.Context, id int64, status string, totalCost *int64) (model.Quote, error) {
	existing, err := s.GetQuoteByID(ctx, id)
	if err != nil {
		return model.Quote{}, err
	}
	cost := existing.TotalCost
	if totalCost != nil {
		cost = nullInt64Ptr(totalCost)
	}
	_, err = s.db.ExecContext(ctx, `UPDATE quotes SET status = ?, total_cost = ? WHERE id = ?`,
		status, cost, id)
	if err != nil {
		return model.Quote{}, translateErr(err)
	}
	return s.GetQuoteByID(ctx, id)
}

// ---- Events ----

func (s *SQLiteStore) CreateEvent(ctx context.Context, p CreateEventParams) (model.Event, error) {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	metadata := p.Metadata
	if metadata == "" {
		metadata = "{}"
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO events
		(level, category, message, user_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Level, p.Category, p.Message, nullInt64Ptr(p.UserID), metadata, createdAt)
	if err != nil {
		return model.Event{}, translateErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Event{}, err
	}
	var e model.Event
	row := s.db.QueryRowContext(ctx,
		`SELECT id, level, category, message, user_id, metadata, created_at FROM events WHERE id = ?`, id)
	err = row.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID, &e.Metadata, &e.CreatedAt)
	return e, translateErr(err)
}

func (s *SQLiteStore) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ---- AI usage analytics ----

func (s *SQLiteStore) CreateAIRequest(ctx context.Context, p CreateAIRequestParams) (model.AIRequest, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `INSERT INTO ai_requests
		(route, provider, device_type, country, duration_ms, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Route, p.Provider, p.DeviceType, p.Country, p.DurationMS, p.Status, now)
	if err != nil {
		return model.AIRequest{}, translateErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.AIRequest{}, err
	}
	var r model.AIRequest
	row := s.db.QueryRowContext(ctx,
		`SELECT id, route, provider, device_type, country, duration_ms, status, created_at
		 FROM ai_requests WHERE id = ?`, id)
	err = row.Scan(&r.ID, &r.Route, &r.Provider, &r.DeviceType, &r.Country, &r.DurationMS, &r.Status, &r.CreatedAt)
	return r, translateErr(err)
}

func (s *SQLiteStore) CountAIRequestsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ai_requests WHERE created_at >= ?`, since).Scan(&count)
	return count, err
}

func (s *SQLiteStore) DeleteAIRequestsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ai_requests WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ---- Admin dashboard ----

func (s *SQLiteStore) GetStats(ctx context.Context) (Stats, error) {
	var st Stats
	queries := []struct {
		dest  *int64
		query string
		args  []any
	}{
		{&st.Users, `SELECT COUNT(*) FROM users`, nil},
		{&st.Projects, `SELECT COUNT(*) FROM projects`, nil},
		{&st.Quotes, `SELECT COUNT(*) FROM quotes`, nil},
		{&st.PendingQuotes, `SELECT COUNT(*) FROM quotes WHERE status = ?`, []any{model.QuoteStatusPending}},
		{&st.UnreadMessages, `SELECT COUNT(*) FROM messages WHERE is_read = 0`, nil},
		{&st.AIRequests24h, `SELECT COUNT(*) FROM ai_requests WHERE created_at >= ?`,
			[]any{time.Now().UTC().Add(-24 * time.Hour)}},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query, q.args...).Scan(q.dest); err != nil {
			return Stats{}, err
		}
	}
	return st, nil
}
