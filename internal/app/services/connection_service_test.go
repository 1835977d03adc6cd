package services

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumnode/backend/internal/app/models"
	"github.com/alumnode/backend/internal/app/services/servicetest"
	"github.com/alumnode/backend/internal/pkg/apperrors"
)

func TestDecideConnectionRequest(t *testing.T) {
	const a, b = int64(1), int64(2)

	tests := []struct {
		name     string
		existing *models.Connection
		want     models.ConnectionAction
		wantErr  error
	}{
		{
			name: "no row creates a request",
			want: models.ConnectionCreate,
		},
		{
			name:     "accepted pair is already connected",
			existing: &models.Connection{RequesterID: b, AddresseeID: a, Status: models.ConnectionAccepted},
			wantErr:  apperrors.ErrAlreadyConnected,
		},
		{
			name:     "reciprocal pending request is accepted",
			existing: &models.Connection{RequesterID: b, AddresseeID: a, Status: models.ConnectionPending},
			want:     models.ConnectionAccept,
		},
		{
			name:     "repeated request is rejected",
			existing: &models.Connection{RequesterID: a, AddresseeID: b, Status: models.ConnectionPending},
			wantErr:  apperrors.ErrRequestAlreadyExists,
		},
		{
			name:     "rejected row is reopened by the former addressee",
			existing: &models.Connection{RequesterID: b, AddresseeID: a, Status: models.ConnectionRejected},
			want:     models.ConnectionReopen,
		},
		{
			name:     "rejected row is reopened by the former requester",
			existing: &models.Connection{RequesterID: a, AddresseeID: b, Status: models.ConnectionRejected},
			want:     models.ConnectionReopen,
		},
		{
			name:     "unknown status is an invalid operation",
			existing: &models.Connection{RequesterID: a, AddresseeID: b, Status: "blocked"},
			wantErr:  apperrors.ErrInvalidOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecideConnectionRequest(tt.existing, a)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type connectionFixture struct {
	svc   *ConnectionService
	users *servicetest.Users
	conns *servicetest.Connections
	alice int64
	bob   int64
}

func newConnectionFixture() *connectionFixture {
	users := servicetest.NewUsers()
	conns := servicetest.NewConnections(users)
	return &connectionFixture{
		svc:   NewConnectionService(conns, users, zerolog.Nop()),
		users: users,
		conns: conns,
		alice: users.Add("Alice", "A"),
		bob:   users.Add("Bob", "B"),
	}
}

func TestConnectionService_RequestCreatesPendingRow(t *testing.T) {
	f := newConnectionFixture()
	ctx := context.Background()

	res, err := f.svc.RequestConnection(ctx, f.alice, f.bob)
	require.NoError(t, err)

	assert.Equal(t, models.ConnectionCreate, res.Action)
	assert.Equal(t, MsgConnectionRequested, res.Message)
	assert.Equal(t, models.ConnectionPending, res.Connection.Status)
	assert.Equal(t, f.alice, res.Connection.RequesterID)
	assert.Equal(t, f.bob, res.Connection.AddresseeID)
	assert.Equal(t, 1, f.conns.Len())
}

func TestConnectionService_ReciprocalRequestAccepts(t *testing.T) {
	f := newConnectionFixture()
	ctx := context.Background()

	first, err := f.svc.RequestConnection(ctx, f.alice, f.bob)
	require.NoError(t, err)

	res, err := f.svc.RequestConnection(ctx, f.bob, f.alice)
	require.NoError(t, err)

	assert.Equal(t, models.ConnectionAccept, res.Action)
	assert.Equal(t, MsgConnectionAccepted, res.Message)
	assert.Equal(t, first.Connection.ID, res.Connection.ID)
	assert.Equal(t, models.ConnectionAccepted, res.Connection.Status)
	assert.Equal(t, 1, f.conns.Len())
}

func TestConnectionService_DuplicateAndConnectedRequests(t *testing.T) {
	f := newConnectionFixture()
	ctx := context.Background()

	_, err := f.svc.RequestConnection(ctx, f.alice, f.bob)
	require.NoError(t, err)

	_, err = f.svc.RequestConnection(ctx, f.alice, f.bob)
	assert.ErrorIs(t, err, apperrors.ErrRequestAlreadyExists)

	_, err = f.svc.RequestConnection(ctx, f.bob, f.alice)
	require.NoError(t, err)

	_, err = f.svc.RequestConnection(ctx, f.alice, f.bob)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyConnected)
	_, err = f.svc.RequestConnection(ctx, f.bob, f.alice)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyConnected)

	assert.Equal(t, 1, f.conns.Len())
}

func TestConnectionService_SelfAndUnknownUser(t *testing.T) {
	f := newConnectionFixture()
	ctx := context.Background()

	_, err := f.svc.RequestConnection(ctx, f.alice, f.alice)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOperation)

	_, err = f.svc.RequestConnection(ctx, f.alice, 999)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	assert.Equal(t, 0, f.conns.Len())
}

func TestConnectionService_RejectedRowReopensWithNewDirection(t *testing.T) {
	f := newConnectionFixture()
	ctx := context.Background()

	req, err := f.svc.RequestConnection(ctx, f.alice, f.bob)
	require.NoError(t, err)

	rejected, err := f.svc.Respond(ctx, req.Connection.ID, f.bob, "reject")
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionRejected, rejected.Connection.Status)
	assert.Equal(t, MsgConnectionRejected, rejected.Message)

	res, err := f.svc.RequestConnection(ctx, f.bob, f.alice)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionReopen, res.Action)
	assert.Equal(t, req.Connection.ID, res.Connection.ID)
	assert.Equal(t, models.ConnectionPending, res.Connection.Status)
	assert.Equal(t, f.bob, res.Connection.RequesterID)
	assert.Equal(t, f.alice, res.Connection.AddresseeID)
	assert.Equal(t, 1, f.conns.Len())
}

func TestConnectionService_Respond(t *testing.T) {
	f := newConnectionFixture()
	ctx := context.Background()

	req, err := f.svc.RequestConnection(ctx, f.alice, f.bob)
	require.NoError(t, err)
	id := req.Connection.ID

	_, err = f.svc.Respond(ctx, id, f.bob, "maybe")
	assert.ErrorIs(t, err, apperrors.ErrInvalidOperation)

	// only the addressee may respond
	_, err = f.svc.Respond(ctx, id, f.alice, "accept")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = f.svc.Respond(ctx, id+100, f.bob, "accept")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	res, err := f.svc.Respond(ctx, id, f.bob, "accept")
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionAccepted, res.Connection.Status)

	// no longer pending
	_, err = f.svc.Respond(ctx, id, f.bob, "reject")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestConnectionService_ListsAndStatus(t *testing.T) {
	f := newConnectionFixture()
	ctx := context.Background()
	carol := f.users.Add("Carol", "C")

	req, err := f.svc.RequestConnection(ctx, f.alice, f.bob)
	require.NoError(t, err)
	_, err = f.svc.RequestConnection(ctx, carol, f.bob)
	require.NoError(t, err)

	incoming, err := f.svc.ListIncoming(ctx, f.bob)
	require.NoError(t, err)
	require.Len(t, incoming, 2)
	assert.Equal(t, "Carol", incoming[0].RequesterFirstName)

	status, err := f.svc.Status(ctx, f.bob, f.alice)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, models.ConnectionPending, *status)

	_, err = f.svc.Respond(ctx, req.Connection.ID, f.bob, "accept")
	require.NoError(t, err)

	connections, err := f.svc.ListConnections(ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, connections, 1)
	assert.Equal(t, f.bob, connections[0].UserID)

	status, err = f.svc.Status(ctx, f.alice, carol)
	require.NoError(t, err)
	assert.Nil(t, status)

	status, err = f.svc.Status(ctx, f.alice, f.alice)
	require.NoError(t, err)
	assert.Nil(t, status)

	_, err = f.svc.ListConnections(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestConnectionService_ConcurrentCrossRequestsKeepOneRow(t *testing.T) {
	f := newConnectionFixture()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = f.svc.RequestConnection(ctx, f.alice, f.bob)
		}()
		go func() {
			defer wg.Done()
			_, _ = f.svc.RequestConnection(ctx, f.bob, f.alice)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.conns.Len())
	status, err := f.svc.Status(ctx, f.alice, f.bob)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionAccepted, *status)
}
