// Package servicetest provides in-memory implementations of the service
// stores for tests.
package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/alumnode/backend/internal/app/models"
	"github.com/alumnode/backend/internal/app/repositories"
	"github.com/alumnode/backend/internal/pkg/apperrors"
)

// Users is an in-memory UserStore
type Users struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
}

func NewUsers() *Users {
	return &Users{byID: make(map[int64]*models.User)}
}

func (s *Users) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.byID {
		if u.Email == user.Email || u.CollegeEmail == user.CollegeEmail || u.MobileNumber == user.MobileNumber {
			return apperrors.NewAlreadyExistsError("User with this details already exists!")
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	cp := *user
	s.byID[user.ID] = &cp
	return nil
}

func (s *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (s *Users) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Users) Exists(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byID[id]
	return ok, nil
}

// Add stores a user directly and returns its ID
func (s *Users) Add(first, last string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.byID[s.nextID] = &models.User{ID: s.nextID, FirstName: first, LastName: last, CreatedAt: time.Now()}
	return s.nextID
}

// Admins is an in-memory AdminStore
type Admins struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Admin
}

func NewAdmins() *Admins {
	return &Admins{byID: make(map[int64]*models.Admin)}
}

func (s *Admins) Create(_ context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.byID {
		if a.Username == admin.Username {
			return apperrors.NewAlreadyExistsError("Admin with this details already exists!")
		}
	}
	s.nextID++
	admin.ID = s.nextID
	cp := *admin
	s.byID[admin.ID] = &cp
	return nil
}

func (s *Admins) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.byID {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (s *Admins) GetByID(_ context.Context, id int64) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	cp := *a
	return &cp, nil
}

type tokenRow struct {
	principalID int64
	createdAt   time.Time
}

// Tokens is an in-memory TokenStore. Now stamps created rows.
type Tokens struct {
	mu   sync.Mutex
	rows map[string]tokenRow
	Now  func() time.Time
}

func NewTokens() *Tokens {
	return &Tokens{rows: make(map[string]tokenRow), Now: time.Now}
}

func (s *Tokens) Create(_ context.Context, token string, principalID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[token]; ok {
		return apperrors.NewAlreadyExistsError("token already exists")
	}
	s.rows[token] = tokenRow{principalID: principalID, createdAt: s.Now()}
	return nil
}

func (s *Tokens) FindPrincipalID(_ context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[token]
	if !ok {
		return 0, apperrors.ErrTokenInvalid
	}
	return row.principalID, nil
}

func (s *Tokens) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, token)
	return nil
}

func (s *Tokens) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for token, row := range s.rows {
		if row.createdAt.Before(cutoff) {
			delete(s.rows, token)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored tokens
func (s *Tokens) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// Connections is an in-memory ConnectionStore keeping one row per unordered
// pair, like the connections_pair_key index.
type Connections struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.Connection
	users  *Users
}

func NewConnections(users *Users) *Connections {
	return &Connections{rows: make(map[int64]*models.Connection), users: users}
}

func (s *Connections) findLocked(a, b int64) *models.Connection {
	for _, c := range s.rows {
		if (c.RequesterID == a && c.AddresseeID == b) || (c.RequesterID == b && c.AddresseeID == a) {
			return c
		}
	}
	return nil
}

func (s *Connections) FindBetween(_ context.Context, a, b int64) (*models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findLocked(a, b)
	if c == nil {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *Connections) ApplyRequest(_ context.Context, requesterID, addresseeID int64, decide repositories.ConnectionDecider) (*models.Connection, models.ConnectionAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.findLocked(requesterID, addresseeID)
	var snapshot *models.Connection
	if existing != nil {
		cp := *existing
		snapshot = &cp
	}

	action, err := decide(snapshot)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	switch action {
	case models.ConnectionCreate:
		s.nextID++
		existing = &models.Connection{
			ID:          s.nextID,
			RequesterID: requesterID,
			AddresseeID: addresseeID,
			Status:      models.ConnectionPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		s.rows[existing.ID] = existing
	case models.ConnectionAccept:
		existing.Status = models.ConnectionAccepted
		existing.UpdatedAt = now
	case models.ConnectionReopen:
		existing.RequesterID = requesterID
		existing.AddresseeID = addresseeID
		existing.Status = models.ConnectionPending
		existing.UpdatedAt = now
	}

	cp := *existing
	return &cp, action, nil
}

func (s *Connections) Respond(_ context.Context, connectionID, addresseeID int64, status models.ConnectionStatus) (*models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.rows[connectionID]
	if !ok || c.AddresseeID != addresseeID || c.Status != models.ConnectionPending {
		return nil, apperrors.NewResourceNotFoundError("Connection request not found or you're not authorized to respond!")
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (s *Connections) ListIncoming(ctx context.Context, userID int64) ([]models.IncomingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.IncomingRequest
	for _, c := range s.rows {
		if c.AddresseeID != userID || c.Status != models.ConnectionPending {
			continue
		}
		req := models.IncomingRequest{Connection: *c}
		if u, err := s.users.GetByID(ctx, c.RequesterID); err == nil {
			req.RequesterFirstName = u.FirstName
			req.RequesterLastName = u.LastName
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Connections) ListAccepted(ctx context.Context, userID int64) ([]models.ConnectedUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ConnectedUser
	for _, c := range s.rows {
		if c.Status != models.ConnectionAccepted || (c.RequesterID != userID && c.AddresseeID != userID) {
			continue
		}
		other := c.RequesterID
		if other == userID {
			other = c.AddresseeID
		}
		cu := models.ConnectedUser{ConnectionID: c.ID, UserID: other, ConnectedAt: c.UpdatedAt}
		if u, err := s.users.GetByID(ctx, other); err == nil {
			cu.FirstName = u.FirstName
			cu.LastName = u.LastName
			cu.IsAlumni = u.IsAlumni
		}
		out = append(out, cu)
	}
	return out, nil
}

// Len returns the number of stored rows
func (s *Connections) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
