package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumnode/backend/internal/app/migrations"
	"github.com/alumnode/backend/internal/app/models"
	"github.com/alumnode/backend/internal/app/repositories"
	"github.com/alumnode/backend/internal/app/services"
	"github.com/alumnode/backend/internal/db"
	"github.com/alumnode/backend/internal/pkg/apperrors"
	"github.com/alumnode/backend/internal/pkg/dberrors"
)

// testDB connects to DATABASE_URL and applies the migrations. The test is
// skipped when the variable is unset or the server is unreachable.
func testDB(t *testing.T) *db.PostgresDB {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("postgres not available: %v", err)
	}
	t.Cleanup(pool.Close)

	migrator := migrations.NewMigrator(pool, zerolog.Nop())
	require.NoError(t, migrator.MigrateFromDirectory(ctx, filepath.Join("..", "..", "..", "migrations")))

	return &db.PostgresDB{Pool: pool}
}

// createUsers inserts n users with unique contact details and removes them,
// together with their connections, when the test ends.
func createUsers(t *testing.T, database *db.PostgresDB, n int) []int64 {
	t.Helper()
	ctx := context.Background()
	users := repositories.NewUserRepository(database.Pool)
	stamp := time.Now().UnixNano() % 1_000_000_000

	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		u := &models.User{
			FirstName:    fmt.Sprintf("User%d", i),
			LastName:     "Test",
			MobileNumber: fmt.Sprintf("8%09d%d", stamp, i),
			Email:        fmt.Sprintf("u%d.%d@x.com", stamp, i),
			CollegeEmail: fmt.Sprintf("u%d.%d@college.edu", stamp, i),
			Password:     "hash",
		}
		require.NoError(t, users.Create(ctx, u))
		ids = append(ids, u.ID)
	}

	t.Cleanup(func() {
		_, _ = database.Pool.Exec(context.Background(), `DELETE FROM users WHERE id = ANY($1)`, ids)
	})
	return ids
}

func decideFor(requesterID int64) repositories.ConnectionDecider {
	return func(existing *models.Connection) (models.ConnectionAction, error) {
		return services.DecideConnectionRequest(existing, requesterID)
	}
}

func pairRows(t *testing.T, database *db.PostgresDB, a, b int64) int {
	t.Helper()
	var n int
	require.NoError(t, database.Pool.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM connections
		WHERE (requester_id = $1 AND addressee_id = $2) OR (requester_id = $2 AND addressee_id = $1)`,
		a, b).Scan(&n))
	return n
}

func TestConnectionRepository_ConcurrentRequestsKeepOneRow(t *testing.T) {
	database := testDB(t)
	repo := repositories.NewConnectionRepository(database)
	ids := createUsers(t, database, 2)
	alice, bob := ids[0], ids[1]

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		actions = map[models.ConnectionAction]int{}
		errs    []error
	)

	for i := 0; i < workers; i++ {
		from, to := alice, bob
		if i%2 == 1 {
			from, to = bob, alice
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, action, err := repo.ApplyRequest(context.Background(), from, to, decideFor(from))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			actions[action]++
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.True(t,
			errors.Is(err, apperrors.ErrRequestAlreadyExists) || errors.Is(err, apperrors.ErrAlreadyConnected),
			"unexpected error: %v", err)
	}
	assert.Equal(t, 1, actions[models.ConnectionCreate])
	assert.Equal(t, 1, actions[models.ConnectionAccept])
	assert.Equal(t, 1, pairRows(t, database, alice, bob))

	conn, err := repo.FindBetween(context.Background(), bob, alice)
	require.NoError(t, err)
	require.NotNil(t, conn)
	assert.Equal(t, models.ConnectionAccepted, conn.Status)
}

func TestConnectionRepository_PairIndexRejectsReversedRow(t *testing.T) {
	database := testDB(t)
	repo := repositories.NewConnectionRepository(database)
	ids := createUsers(t, database, 2)
	ctx := context.Background()

	_, _, err := repo.ApplyRequest(ctx, ids[0], ids[1], decideFor(ids[0]))
	require.NoError(t, err)

	_, err = database.Pool.Exec(ctx,
		`INSERT INTO connections (requester_id, addressee_id, status) VALUES ($1, $2, 'pending')`, ids[1], ids[0])
	require.Error(t, err)
	assert.True(t, dberrors.IsDuplicateConstraintError(err, "connections_pair_key"), err.Error())
}

func TestConnectionRepository_RespondAndReopen(t *testing.T) {
	database := testDB(t)
	repo := repositories.NewConnectionRepository(database)
	ids := createUsers(t, database, 3)
	alice, bob, carol := ids[0], ids[1], ids[2]
	ctx := context.Background()

	conn, action, err := repo.ApplyRequest(ctx, alice, bob, decideFor(alice))
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionCreate, action)

	// only the addressee of a pending row may answer
	for _, who := range []int64{alice, carol} {
		_, err = repo.Respond(ctx, conn.ID, who, models.ConnectionAccepted)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	}

	rejected, err := repo.Respond(ctx, conn.ID, bob, models.ConnectionRejected)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionRejected, rejected.Status)

	_, err = repo.Respond(ctx, conn.ID, bob, models.ConnectionAccepted)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	// a new request recycles the rejected row in the new direction
	reopened, action, err := repo.ApplyRequest(ctx, bob, alice, decideFor(bob))
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionReopen, action)
	assert.Equal(t, conn.ID, reopened.ID)
	assert.Equal(t, bob, reopened.RequesterID)
	assert.Equal(t, alice, reopened.AddresseeID)
	assert.Equal(t, models.ConnectionPending, reopened.Status)
	assert.Equal(t, 1, pairRows(t, database, alice, bob))
}
