package team

import (
	"context"
	"database/sql"
	"testing"
	"time"

	testutil "github.com/partydex/partydex/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T, userIDs ...string) *sql.DB {
	t.Helper()
	db, cleanup := testutil.NewTestDB(t, "team")
	t.Cleanup(cleanup)

	for _, id := range userIDs {
		_, err := db.Conn().Exec(
			"INSERT INTO users (id, email, password_hash, display_name, created_at, updated_at) VALUES (?, ?, 'x', '', 0, 0)",
			id, id+"@example.com",
		)
		require.NoError(t, err)
	}
	return db.Conn()
}

func newTeam(id, userID string, updatedAt int64, members ...Member) *Team {
	return &Team{
		ID:        id,
		UserID:    userID,
		Name:      "Team " + id,
		CreatedAt: time.Unix(updatedAt, 0).UTC(),
		UpdatedAt: time.Unix(updatedAt, 0).UTC(),
		Members:   members,
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := NewRepository(newTestDB(t, "ash"), zerolog.Nop())
	ctx := context.Background()

	team := newTeam("t1", "ash", 100, Member{PokemonID: 25, Position: 0}, Member{PokemonID: 6, Position: 1})
	team.IsPublic = true
	team.ShareID = "abc123"
	require.NoError(t, repo.Create(ctx, team, MaxTeamsPerUser))

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Team t1", got.Name)
	assert.True(t, got.IsPublic)
	assert.Equal(t, "abc123", got.ShareID)
	assert.Equal(t, []Member{{PokemonID: 25, Position: 0}, {PokemonID: 6, Position: 1}}, got.Members)

	byShare, err := repo.GetByShareID(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "t1", byShare.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByShareID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_CreateEnforcesLimit(t *testing.T) {
	repo := NewRepository(newTestDB(t, "ash"), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTeam("t1", "ash", 1), 2))
	require.NoError(t, repo.Create(ctx, newTeam("t2", "ash", 2), 2))
	assert.ErrorIs(t, repo.Create(ctx, newTeam("t3", "ash", 3), 2), ErrLimitReached)

	_, err := repo.GetByID(ctx, "t3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_CreateRollsBackOnMemberFailure(t *testing.T) {
	repo := NewRepository(newTestDB(t, "ash"), zerolog.Nop())
	ctx := context.Background()

	bad := newTeam("t1", "ash", 1, Member{PokemonID: 1, Position: 0}, Member{PokemonID: 4, Position: 9})
	require.Error(t, repo.Create(ctx, bad, MaxTeamsPerUser))

	_, err := repo.GetByID(ctx, "t1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_ListByUserNewestFirst(t *testing.T) {
	repo := NewRepository(newTestDB(t, "ash", "misty"), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTeam("old", "ash", 100), MaxTeamsPerUser))
	require.NoError(t, repo.Create(ctx, newTeam("new", "ash", 300, Member{PokemonID: 7, Position: 2}), MaxTeamsPerUser))
	require.NoError(t, repo.Create(ctx, newTeam("mid", "ash", 200), MaxTeamsPerUser))
	require.NoError(t, repo.Create(ctx, newTeam("other", "misty", 400), MaxTeamsPerUser))

	teams, err := repo.ListByUser(ctx, "ash")
	require.NoError(t, err)
	require.Len(t, teams, 3)
	assert.Equal(t, "new", teams[0].ID)
	assert.Equal(t, "mid", teams[1].ID)
	assert.Equal(t, "old", teams[2].ID)
	assert.Equal(t, []Member{{PokemonID: 7, Position: 2}}, teams[0].Members)
	assert.Empty(t, teams[1].Members)

	none, err := repo.ListByUser(ctx, "brock")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestRepository_Update(t *testing.T) {
	repo := NewRepository(newTestDB(t, "ash"), zerolog.Nop())
	ctx := context.Background()

	team := newTeam("t1", "ash", 100, Member{PokemonID: 25, Position: 0})
	require.NoError(t, repo.Create(ctx, team, MaxTeamsPerUser))

	team.Name = "Renamed"
	team.UpdatedAt = time.Unix(200, 0).UTC()
	team.Members = []Member{{PokemonID: 1, Position: 3}}
	require.NoError(t, repo.Update(ctx, team, false))

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, int64(200), got.UpdatedAt.Unix())
	assert.Equal(t, []Member{{PokemonID: 25, Position: 0}}, got.Members, "members kept without replace")

	require.NoError(t, repo.Update(ctx, team, true))
	got, err = repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, []Member{{PokemonID: 1, Position: 3}}, got.Members)

	missing := newTeam("missing", "ash", 1)
	assert.ErrorIs(t, repo.Update(ctx, missing, false), ErrNotFound)
}

func TestRepository_Delete(t *testing.T) {
	conn := newTestDB(t, "ash")
	repo := NewRepository(conn, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTeam("t1", "ash", 1, Member{PokemonID: 25, Position: 0}), MaxTeamsPerUser))
	require.NoError(t, repo.Delete(ctx, "t1"))
	assert.ErrorIs(t, repo.Delete(ctx, "t1"), ErrNotFound)

	var count int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM team_pokemon").Scan(&count))
	assert.Zero(t, count)
}
