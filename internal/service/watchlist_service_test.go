package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/osegonte/daad-study-search-sub000/internal/models"
)

type mockWatchlistRepo struct {
	saved   map[string]bool
	inserts int
	deletes int
}

func key(userID, programmeID string) string { return userID + "/" + programmeID }

func (m *mockWatchlistRepo) Exists(ctx context.Context, userID, programmeID string) (bool, error) {
	return m.saved[key(userID, programmeID)], nil
}

func (m *mockWatchlistRepo) Insert(ctx context.Context, entry *models.WatchlistEntry) error {
	if m.saved == nil {
		m.saved = make(map[string]bool)
	}
	m.saved[key(entry.UserID, entry.ProgrammeID)] = true
	m.inserts++
	return nil
}

func (m *mockWatchlistRepo) Delete(ctx context.Context, userID, programmeID string) error {
	delete(m.saved, key(userID, programmeID))
	m.deletes++
	return nil
}

func (m *mockWatchlistRepo) MembershipForSet(ctx context.Context, userID string, programmeIDs []string) (map[string]bool, error) {
	membership := make(map[string]bool, len(programmeIDs))
	for _, id := range programmeIDs {
		membership[id] = m.saved[key(userID, id)]
	}
	return membership, nil
}

func (m *mockWatchlistRepo) ListByUser(ctx context.Context, userID string) ([]models.WatchlistItem, error) {
	return nil, nil
}

type mockProgrammeFinder struct {
	known map[string]bool
}

func (m *mockProgrammeFinder) FindByID(ctx context.Context, id string) (*models.ProgrammeDetail, error) {
	if !m.known[id] {
		return nil, sql.ErrNoRows
	}
	return &models.ProgrammeDetail{Programme: models.Programme{ID: id}}, nil
}

func newWatchlistServiceForTest(known ...string) (*WatchlistService, *mockWatchlistRepo) {
	repo := &mockWatchlistRepo{}
	finder := &mockProgrammeFinder{known: make(map[string]bool)}
	for _, id := range known {
		finder.known[id] = true
	}
	return NewWatchlistService(repo, finder, zap.NewNop()), repo
}

func TestToggleFlipsMembership(t *testing.T) {
	svc, repo := newWatchlistServiceForTest("prog-1")

	saved, err := svc.Toggle(context.Background(), "user-1", "prog-1")
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = svc.Toggle(context.Background(), "user-1", "prog-1")
	require.NoError(t, err)
	assert.False(t, saved)

	assert.Equal(t, 1, repo.inserts)
	assert.Equal(t, 1, repo.deletes)
}

func TestToggleParityOverManyFlips(t *testing.T) {
	svc, repo := newWatchlistServiceForTest("prog-1")

	for i := 1; i <= 50; i++ {
		saved, err := svc.Toggle(context.Background(), "user-1", "prog-1")
		require.NoError(t, err)
		// Odd toggle counts leave the programme saved, even counts remove it.
		assert.Equal(t, i%2 == 1, saved, fmt.Sprintf("toggle %d", i))
	}

	assert.Equal(t, 25, repo.inserts)
	assert.Equal(t, 25, repo.deletes)
	assert.False(t, repo.saved[key("user-1", "prog-1")])
}

func TestToggleRequiresAuthentication(t *testing.T) {
	svc, _ := newWatchlistServiceForTest("prog-1")

	_, err := svc.Toggle(context.Background(), "", "prog-1")
	require.Error(t, err)
}

func TestToggleUnknownProgramme(t *testing.T) {
	svc, repo := newWatchlistServiceForTest()

	_, err := svc.Toggle(context.Background(), "user-1", "prog-404")
	require.Error(t, err)
	assert.Zero(t, repo.inserts)
}

func TestStatusCoversEveryRequestedID(t *testing.T) {
	svc, _ := newWatchlistServiceForTest("prog-1", "prog-2", "prog-3")

	_, err := svc.Toggle(context.Background(), "user-1", "prog-2")
	require.NoError(t, err)

	status, err := svc.Status(context.Background(), "user-1", []string{"prog-1", "prog-2", "prog-3"})
	require.NoError(t, err)
	require.Len(t, status, 3)
	assert.False(t, status["prog-1"])
	assert.True(t, status["prog-2"])
	assert.False(t, status["prog-3"])
}

func TestStatusRequiresAuthentication(t *testing.T) {
	svc, _ := newWatchlistServiceForTest()

	_, err := svc.Status(context.Background(), "", []string{"prog-1"})
	require.Error(t, err)
}
