package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/andreicopos/UrbanEye/config"
	"github.com/andreicopos/UrbanEye/db"
	apiError "github.com/andreicopos/UrbanEye/errors"
	"github.com/andreicopos/UrbanEye/metrics"
	"github.com/andreicopos/UrbanEye/models"
)

// LikeService applies endorsements. LikeReport is limited to one like per
// user and report; BumpUnconditional is the legacy unattributed counter.
type LikeService interface {
	LikeReport(ctx context.Context, reportID, userID uint) (*models.LikeResult, error)
	HasLiked(ctx context.Context, reportID, userID uint) (bool, int, error)
	BumpUnconditional(ctx context.Context, reportID uint) (*models.LikeResult, error)
}

type likeService struct {
	Config     *config.Config
	likeRepo   db.LikeRepository
	reportRepo db.ReportRepository
	authRepo   db.AuthRepository
	tx         db.Transactor
	log        zerolog.Logger
}

func NewLikeService(likeRepo db.LikeRepository, reportRepo db.ReportRepository, authRepo db.AuthRepository, tx db.Transactor, conf *config.Config, log zerolog.Logger) LikeService {
	return &likeService{
		Config:     conf,
		likeRepo:   likeRepo,
		reportRepo: reportRepo,
		authRepo:   authRepo,
		tx:         tx,
		log:        log.With().Str("component", "likes").Logger(),
	}
}

// LikeReport records the ledger entry and bumps the counter in one
// transaction. A repeated like is not an error: it returns the current count
// with LikeAlreadyApplied.
func (lk *likeService) LikeReport(ctx context.Context, reportID, userID uint) (*models.LikeResult, error) {
	if reportID == 0 {
		return nil, apiError.NewValidationError("report_id", "report_id is required")
	}
	if userID == 0 {
		return nil, apiError.NewValidationError("user_id", "user_id is required")
	}

	exists, err := lk.authRepo.UserExists(ctx, userID)
	if err != nil {
		return nil, apiError.Internal(err)
	}
	if !exists {
		return nil, apiError.NewNotFoundError("user", userID)
	}

	result := &models.LikeResult{ReportID: reportID}
	err = lk.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		outcome, err := lk.likeRepo.TryLike(ctx, reportID, userID)
		if err != nil {
			return err
		}
		result.Outcome = outcome
		if outcome == models.LikeAlreadyApplied {
			// Read after the insert so a concurrent winner's increment is visible.
			result.Likes, err = lk.reportRepo.GetLikes(ctx, reportID)
			return err
		}
		result.Likes, err = lk.reportRepo.IncrementLikes(ctx, reportID)
		return err
	})
	if err != nil {
		return nil, lk.translate(err, reportID, userID)
	}

	metrics.Likes.WithLabelValues(string(result.Outcome)).Inc()
	lk.log.Debug().Uint("report_id", reportID).Uint("user_id", userID).Str("outcome", string(result.Outcome)).Int("likes", result.Likes).Msg("like processed")
	return result, nil
}

func (lk *likeService) HasLiked(ctx context.Context, reportID, userID uint) (bool, int, error) {
	if userID == 0 {
		return false, 0, apiError.NewValidationError("user_id", "user_id is required")
	}
	likes, err := lk.reportRepo.GetLikes(ctx, reportID)
	if err != nil {
		return false, 0, lk.translate(err, reportID, userID)
	}
	liked, err := lk.likeRepo.HasLiked(ctx, reportID, userID)
	if err != nil {
		return false, 0, apiError.Internal(err)
	}
	return liked, likes, nil
}

// BumpUnconditional skips the ledger, so the same caller may bump a report
// any number of times.
func (lk *likeService) BumpUnconditional(ctx context.Context, reportID uint) (*models.LikeResult, error) {
	if reportID == 0 {
		return nil, apiError.NewValidationError("report_id", "report_id is required")
	}
	likes, err := lk.reportRepo.IncrementLikes(ctx, reportID)
	if err != nil {
		return nil, lk.translate(err, reportID, 0)
	}
	metrics.LegacyLikes.Inc()
	return &models.LikeResult{ReportID: reportID, Likes: likes}, nil
}

func (lk *likeService) translate(err error, reportID, userID uint) error {
	switch {
	case errors.Is(err, db.ErrReportNotFound):
		return apiError.NewNotFoundError("report", reportID)
	case errors.Is(err, db.ErrInvalidReference):
		// The user was checked up front, so a dangling reference is the report.
		return apiError.NewNotFoundError("report", reportID)
	case errors.Is(err, db.ErrUserNotFound):
		return apiError.NewNotFoundError("user", userID)
	}
	return apiError.Internal(err)
}
