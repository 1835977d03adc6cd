package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/alumnode/backend/internal/app/models"
	"github.com/alumnode/backend/internal/db"
	"github.com/alumnode/backend/internal/pkg/apperrors"
	"github.com/alumnode/backend/internal/pkg/dberrors"
	"github.com/jackc/pgx/v5"
)

const connectionColumns = "id, requester_id, addressee_id, status, created_at, updated_at"

// ConnectionDecider picks the write for a connection request given the row
// currently stored for the pair (nil when there is none).
type ConnectionDecider func(existing *models.Connection) (models.ConnectionAction, error)

// ConnectionRepository handles the connections table
type ConnectionRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

func NewConnectionRepository(database *db.PostgresDB) *ConnectionRepository {
	return &ConnectionRepository{
		db: database,
		sb: newBuilder(),
	}
}

func scanConnection(row pgx.Row) (*models.Connection, error) {
	c := &models.Connection{}
	if err := row.Scan(&c.ID, &c.RequesterID, &c.AddresseeID, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// pairLockKey derives the advisory lock key of an unordered pair. Distinct
// pairs may share a key once ids exceed 32 bits; that only adds contention.
func pairLockKey(a, b int64) int64 {
	if a > b {
		a, b = b, a
	}
	return a<<32 ^ b
}

func (r *ConnectionRepository) findBetween(ctx context.Context, q querier, a, b int64, forUpdate bool) (*models.Connection, error) {
	query := r.sb.Select(connectionColumns).
		From("connections").
		Where(squirrel.Or{
			squirrel.Eq{"requester_id": a, "addressee_id": b},
			squirrel.Eq{"requester_id": b, "addressee_id": a},
		}).
		Limit(1)
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find connection query: %w", err)
	}

	c, err := scanConnection(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving connection: %w", err)
	}
	return c, nil
}

// FindBetween returns the row of the unordered pair {a, b}, or nil.
func (r *ConnectionRepository) FindBetween(ctx context.Context, a, b int64) (*models.Connection, error) {
	return r.findBetween(ctx, r.db.Pool, a, b, false)
}

// ApplyRequest serializes requests for the pair {requesterID, addresseeID}
// with a transaction-scoped advisory lock, reads the stored row, lets decide
// pick the transition and writes it.
func (r *ConnectionRepository) ApplyRequest(ctx context.Context, requesterID, addresseeID int64, decide ConnectionDecider) (*models.Connection, models.ConnectionAction, error) {
	var (
		result *models.Connection
		action models.ConnectionAction
	)

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, pairLockKey(requesterID, addresseeID)); err != nil {
			return fmt.Errorf("failed to lock connection pair: %w", err)
		}

		existing, err := r.findBetween(ctx, tx, requesterID, addresseeID, true)
		if err != nil {
			return err
		}

		action, err = decide(existing)
		if err != nil {
			return err
		}

		var row pgx.Row
		switch action {
		case models.ConnectionCreate:
			row = tx.QueryRow(ctx, `
				INSERT INTO connections (requester_id, addressee_id, status)
				VALUES ($1, $2, 'pending')
				RETURNING `+connectionColumns,
				requesterID, addresseeID)
		case models.ConnectionAccept:
			row = tx.QueryRow(ctx, `
				UPDATE connections SET status = 'accepted', updated_at = NOW()
				WHERE id = $1
				RETURNING `+connectionColumns,
				existing.ID)
		case models.ConnectionReopen:
			row = tx.QueryRow(ctx, `
				UPDATE connections
				SET status = 'pending', requester_id = $1, addressee_id = $2, updated_at = NOW()
				WHERE id = $3
				RETURNING `+connectionColumns,
				requesterID, addresseeID, existing.ID)
		default:
			return fmt.Errorf("unknown connection action %d", action)
		}

		result, err = scanConnection(row)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "connections_pair_key") {
				return apperrors.NewCustomError(apperrors.ErrRequestAlreadyExists, "A connection request already exists!")
			}
			return fmt.Errorf("error writing connection: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return result, action, nil
}

// Respond moves a pending row addressed to addresseeID to status. Rows that
// are missing, not pending or addressed to someone else all yield
// apperrors.ErrResourceNotFound.
func (r *ConnectionRepository) Respond(ctx context.Context, connectionID, addresseeID int64, status models.ConnectionStatus) (*models.Connection, error) {
	c, err := scanConnection(r.db.Pool.QueryRow(ctx, `
		UPDATE connections SET status = $1, updated_at = NOW()
		WHERE id = $2 AND addressee_id = $3 AND status = 'pending'
		RETURNING `+connectionColumns,
		status, connectionID, addresseeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("Connection request not found or you're not authorized to respond!")
		}
		return nil, fmt.Errorf("error responding to connection: %w", err)
	}
	return c, nil
}

// ListIncoming returns pending requests addressed to userID, newest first
func (r *ConnectionRepository) ListIncoming(ctx context.Context, userID int64) ([]models.IncomingRequest, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT c.id, c.requester_id, c.addressee_id, c.status, c.created_at, c.updated_at,
			u.first_name, u.last_name, p.profile_picture
		FROM connections c
		JOIN users u ON c.requester_id = u.id
		LEFT JOIN profiles p ON u.id = p.user_id
		WHERE c.addressee_id = $1 AND c.status = 'pending'
		ORDER BY c.created_at DESC, c.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing connection requests: %w", err)
	}
	defer rows.Close()

	requests := make([]models.IncomingRequest, 0)
	for rows.Next() {
		var req models.IncomingRequest
		if err := rows.Scan(&req.ID, &req.RequesterID, &req.AddresseeID, &req.Status, &req.CreatedAt, &req.UpdatedAt,
			&req.RequesterFirstName, &req.RequesterLastName, &req.RequesterProfilePicture); err != nil {
			return nil, fmt.Errorf("error scanning connection request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// ListAccepted returns the other party of every accepted connection of
// userID, most recently updated first
func (r *ConnectionRepository) ListAccepted(ctx context.Context, userID int64) ([]models.ConnectedUser, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT c.id, c.created_at, u.id, u.first_name, u.last_name, u.is_alumni,
			p.profile_picture, p.current_position, p.current_company
		FROM connections c
		JOIN users u ON u.id = CASE WHEN c.requester_id = $1 THEN c.addressee_id ELSE c.requester_id END
		LEFT JOIN profiles p ON u.id = p.user_id
		WHERE (c.requester_id = $1 OR c.addressee_id = $1) AND c.status = 'accepted'
		ORDER BY c.updated_at DESC, c.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing connections: %w", err)
	}
	defer rows.Close()

	connections := make([]models.ConnectedUser, 0)
	for rows.Next() {
		var cu models.ConnectedUser
		if err := rows.Scan(&cu.ConnectionID, &cu.ConnectedAt, &cu.UserID, &cu.FirstName, &cu.LastName, &cu.IsAlumni,
			&cu.ProfilePicture, &cu.CurrentPosition, &cu.CurrentCompany); err != nil {
			return nil, fmt.Errorf("error scanning connection: %w", err)
		}
		connections = append(connections, cu)
	}
	return connections, rows.Err()
}
