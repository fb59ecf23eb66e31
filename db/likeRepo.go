package db

import (
	"context"

	"github.com/andreicopos/UrbanEye/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository is the like ledger: one row per (report, user) pair.
type LikeRepository interface {
	TryLike(ctx context.Context, reportID, userID uint) (models.LikeOutcome, error)
	CountForReport(ctx context.Context, reportID uint) (int64, error)
	HasLiked(ctx context.Context, reportID, userID uint) (bool, error)
}

type likeRepo struct {
	DB *gorm.DB
}

func NewLikeRepo(db *GormDB) LikeRepository {
	return &likeRepo{db.DB}
}

// TryLike inserts the ledger entry. A conflicting entry, whether skipped by
// ON CONFLICT or raised as a unique violation, means the user already liked
// the report.
func (lk *likeRepo) TryLike(ctx context.Context, reportID, userID uint) (models.LikeOutcome, error) {
	like := models.ReportLike{ReportID: reportID, UserID: userID}
	res := conn(ctx, lk.DB).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "report_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&like)
	if res.Error != nil {
		switch {
		case isUniqueViolation(res.Error):
			return models.LikeAlreadyApplied, nil
		case isForeignKeyViolation(res.Error):
			return "", ErrInvalidReference
		}
		return "", errors.Wrap(res.Error, "insert like")
	}
	if res.RowsAffected == 0 {
		return models.LikeAlreadyApplied, nil
	}
	return models.LikeApplied, nil
}

func (lk *likeRepo) CountForReport(ctx context.Context, reportID uint) (int64, error) {
	var count int64
	err := conn(ctx, lk.DB).Model(&models.ReportLike{}).Where("report_id = ?", reportID).Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "count likes")
	}
	return count, nil
}

func (lk *likeRepo) HasLiked(ctx context.Context, reportID, userID uint) (bool, error) {
	var count int64
	err := conn(ctx, lk.DB).Model(&models.ReportLike{}).
		Where("report_id = ? AND user_id = ?", reportID, userID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "check like")
	}
	return count > 0, nil
}
