package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/osegonte/daad-study-search-sub000/internal/models"
	appErrors "github.com/osegonte/daad-study-search-sub000/pkg/errors"
)

// WatchlistRepository abstracts watchlist persistence.
type WatchlistRepository interface {
	Exists(ctx context.Context, userID, programmeID string) (bool, error)
	Insert(ctx context.Context, entry *models.WatchlistEntry) error
	Delete(ctx context.Context, userID, programmeID string) error
	MembershipForSet(ctx context.Context, userID string, programmeIDs []string) (map[string]bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.WatchlistItem, error)
}

// WatchlistProgrammeRepository resolves programmes referenced by toggles.
type WatchlistProgrammeRepository interface {
	FindByID(ctx context.Context, id string) (*models.ProgrammeDetail, error)
}

// WatchlistService manages the per-user saved-programme list.
type WatchlistService struct {
	repo       WatchlistRepository
	programmes WatchlistProgrammeRepository
	logger     *zap.Logger
}

// NewWatchlistService constructs a watchlist service.
func NewWatchlistService(repo WatchlistRepository, programmes WatchlistProgrammeRepository, logger *zap.Logger) *WatchlistService {
	return &WatchlistService{repo: repo, programmes: programmes, logger: logger}
}

// Toggle flips membership for the programme and returns the new state. The
// read and the write are separate statements; two concurrent toggles for the
// same pair can race, which for a single user's double-click is acceptable.
func (s *WatchlistService) Toggle(ctx context.Context, userID, programmeID string) (bool, error) {
	if userID == "" {
		return false, appErrors.ErrUnauthorized
	}

	if _, err := s.programmes.FindByID(ctx, programmeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, appErrors.ErrNotFound
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load programme")
	}

	saved, err := s.repo.Exists(ctx, userID, programmeID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check watchlist membership")
	}

	if saved {
		if err := s.repo.Delete(ctx, userID, programmeID); err != nil {
			return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove watchlist entry")
		}
		return false, nil
	}

	entry := &models.WatchlistEntry{UserID: userID, ProgrammeID: programmeID}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add watchlist entry")
	}
	return true, nil
}

// Status reports saved/not-saved for every programme in one batch. Every
// requested id appears in the result.
func (s *WatchlistService) Status(ctx context.Context, userID string, programmeIDs []string) (map[string]bool, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthorized
	}
	membership, err := s.repo.MembershipForSet(ctx, userID, programmeIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load watchlist status")
	}
	return membership, nil
}

// List returns the user's saved programmes, newest first.
func (s *WatchlistService) List(ctx context.Context, userID string) ([]models.WatchlistItem, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthorized
	}
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list watchlist")
	}
	if items == nil {
		items = []models.WatchlistItem{}
	}
	return items, nil
}
