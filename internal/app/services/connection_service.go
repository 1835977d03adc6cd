package services

import (
	"context"

	"github.com/alumnode/backend/internal/app/models"
	"github.com/alumnode/backend/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// Connection request outcomes as shown to the client
const (
	MsgConnectionRequested = "Connection request sent!"
	MsgConnectionAccepted  = "Connection request accepted!"
	MsgConnectionRejected  = "Connection request rejected!"
)

// DecideConnectionRequest applies the connection state machine to a request
// from requesterID, given the row currently stored for the pair:
//
//	none                           -> create pending requester->addressee
//	accepted                       -> ErrAlreadyConnected
//	pending, caller is addressee   -> accept (reciprocal request)
//	pending, caller is requester   -> ErrRequestAlreadyExists
//	rejected                       -> reopen as pending requester->addressee
func DecideConnectionRequest(existing *models.Connection, requesterID int64) (models.ConnectionAction, error) {
	if existing == nil {
		return models.ConnectionCreate, nil
	}

	switch existing.Status {
	case models.ConnectionAccepted:
		return 0, apperrors.NewCustomError(apperrors.ErrAlreadyConnected, "You are already connected with this user!")
	case models.ConnectionPending:
		if existing.AddresseeID == requesterID {
			return models.ConnectionAccept, nil
		}
		return 0, apperrors.NewCustomError(apperrors.ErrRequestAlreadyExists, "A connection request already exists!")
	case models.ConnectionRejected:
		return models.ConnectionReopen, nil
	}

	return 0, apperrors.NewInvalidOperationError("Connection is in an unknown state!")
}

// ConnectionResult is a connection after a request, with the outcome message
type ConnectionResult struct {
	Connection *models.Connection
	Action     models.ConnectionAction
	Message    string
}

// ConnectionService implements the connection request state machine
type ConnectionService struct {
	connections ConnectionStore
	users       UserStore
	logger      zerolog.Logger
}

func NewConnectionService(connections ConnectionStore, users UserStore, logger zerolog.Logger) *ConnectionService {
	return &ConnectionService{
		connections: connections,
		users:       users,
		logger:      logger,
	}
}

// RequestConnection asks addresseeID to connect with requesterID. A pending
// request in the opposite direction is accepted instead.
func (s *ConnectionService) RequestConnection(ctx context.Context, requesterID, addresseeID int64) (*ConnectionResult, error) {
	if requesterID == addresseeID {
		return nil, apperrors.NewInvalidOperationError("You cannot connect with yourself!")
	}

	exists, err := s.users.Exists(ctx, addresseeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewResourceNotFoundError("User not found!")
	}

	conn, action, err := s.connections.ApplyRequest(ctx, requesterID, addresseeID,
		func(existing *models.Connection) (models.ConnectionAction, error) {
			return DecideConnectionRequest(existing, requesterID)
		})
	if err != nil {
		return nil, err
	}

	msg := MsgConnectionRequested
	if action == models.ConnectionAccept {
		msg = MsgConnectionAccepted
	}

	s.logger.Info().
		Int64("connectionID", conn.ID).
		Int64("requesterID", requesterID).
		Int64("addresseeID", addresseeID).
		Str("status", string(conn.Status)).
		Msg("Connection request processed")

	return &ConnectionResult{Connection: conn, Action: action, Message: msg}, nil
}

// Respond accepts or rejects a pending request addressed to actingUserID
func (s *ConnectionService) Respond(ctx context.Context, connectionID, actingUserID int64, action string) (*ConnectionResult, error) {
	var (
		status models.ConnectionStatus
		msg    string
	)
	switch action {
	case "accept":
		status, msg = models.ConnectionAccepted, MsgConnectionAccepted
	case "reject":
		status, msg = models.ConnectionRejected, MsgConnectionRejected
	default:
		return nil, apperrors.NewInvalidOperationError("Invalid action! Use 'accept' or 'reject'.")
	}

	conn, err := s.connections.Respond(ctx, connectionID, actingUserID, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("connectionID", conn.ID).Str("status", string(status)).Msg("Connection request answered")
	return &ConnectionResult{Connection: conn, Message: msg}, nil
}

// ListIncoming returns pending requests addressed to userID, newest first
func (s *ConnectionService) ListIncoming(ctx context.Context, userID int64) ([]models.IncomingRequest, error) {
	return s.connections.ListIncoming(ctx, userID)
}

// ListConnections returns the accepted connections of userID
func (s *ConnectionService) ListConnections(ctx context.Context, userID int64) ([]models.ConnectedUser, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewResourceNotFoundError("User not found!")
	}
	return s.connections.ListAccepted(ctx, userID)
}

// Status returns the status of the pair row, or nil when the users never
// interacted.
func (s *ConnectionService) Status(ctx context.Context, a, b int64) (*models.ConnectionStatus, error) {
	if a == b {
		return nil, nil
	}
	conn, err := s.connections.FindBetween(ctx, a, b)
	if err != nil || conn == nil {
		return nil, err
	}
	status := conn.Status
	return &status, nil
}
