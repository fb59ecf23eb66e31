package db

import (
	"context"
	"time"

	"github.com/andreicopos/UrbanEye/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReportRepository interface {
	Insert(ctx context.Context, report models.NewReport) (*models.ReportView, error)
	GetByID(ctx context.Context, id uint) (*models.ReportView, error)
	ListAll(ctx context.Context) ([]models.ReportView, error)
	ListForUser(ctx context.Context, userID uint) ([]models.ReportView, error)
	SetStatus(ctx context.Context, id uint, status models.ReportStatus) error
	IncrementLikes(ctx context.Context, id uint) (int, error)
	GetLikes(ctx context.Context, id uint) (int, error)
}

type reportRepo struct {
	DB *gorm.DB
}

func NewReportRepo(db *GormDB) ReportRepository {
	return &reportRepo{db.DB}
}

// reportRow is a report joined with its owner's name.
type reportRow struct {
	ID        uint
	UserID    uint
	Name      string
	Surname   string
	Issues    string
	Details   string
	Location  string
	ImagePath string
	Status    models.ReportStatus
	Likes     int
	CreatedAt time.Time
}

const reportColumns = "reports.id, reports.user_id, users.name, users.surname, reports.issues, " +
	"reports.details, reports.location, reports.image_path, reports.status, reports.likes, reports.created_at"

func (row reportRow) view() (models.ReportView, error) {
	issues, err := decodeIssues(row.Issues)
	if err != nil {
		return models.ReportView{}, errors.Wrapf(err, "report %d", row.ID)
	}
	owner := models.User{Name: row.Name, Surname: row.Surname}
	return models.ReportView{
		ID:        row.ID,
		UserID:    row.UserID,
		UserName:  owner.FullName(),
		Issues:    issues,
		Details:   row.Details,
		Location:  row.Location,
		ImagePath: row.ImagePath,
		Status:    row.Status,
		Likes:     row.Likes,
		CreatedAt: row.CreatedAt,
	}, nil
}

// Insert stores a new pending report. An unknown owner is reported as
// ErrInvalidReference, whether caught by the lookup or by the foreign key.
func (r *reportRepo) Insert(ctx context.Context, in models.NewReport) (*models.ReportView, error) {
	encoded, err := encodeIssues(in.Issues)
	if err != nil {
		return nil, err
	}

	var view models.ReportView
	err = runInTx(ctx, r.DB, func(ctx context.Context) error {
		db := conn(ctx, r.DB)

		var owner models.User
		if err := db.Select("id", "name", "surname").First(&owner, in.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidReference
			}
			return errors.Wrap(err, "load report owner")
		}

		report := models.Report{
			UserID:    in.UserID,
			Issues:    encoded,
			Details:   in.Details,
			Location:  in.Location,
			ImagePath: in.ImagePath,
			Status:    models.StatusPending,
		}
		if err := db.Omit(clause.Associations).Create(&report).Error; err != nil {
			if isForeignKeyViolation(err) {
				return ErrInvalidReference
			}
			return errors.Wrap(err, "insert report")
		}

		issues := in.Issues
		if issues == nil {
			issues = []string{}
		}
		view = models.ReportView{
			ID:        report.ID,
			UserID:    report.UserID,
			UserName:  owner.FullName(),
			Issues:    issues,
			Details:   report.Details,
			Location:  report.Location,
			ImagePath: report.ImagePath,
			Status:    report.Status,
			Likes:     0,
			CreatedAt: report.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *reportRepo) GetByID(ctx context.Context, id uint) (*models.ReportView, error) {
	var rows []reportRow
	err := r.joined(ctx).Where("reports.id = ?", id).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "get report")
	}
	if len(rows) == 0 {
		return nil, ErrReportNotFound
	}
	view, err := rows[0].view()
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ListAll returns every report, newest first.
func (r *reportRepo) ListAll(ctx context.Context) ([]models.ReportView, error) {
	return r.list(ctx, r.joined(ctx))
}

func (r *reportRepo) ListForUser(ctx context.Context, userID uint) ([]models.ReportView, error) {
	return r.list(ctx, r.joined(ctx).Where("reports.user_id = ?", userID))
}

func (r *reportRepo) joined(ctx context.Context) *gorm.DB {
	return conn(ctx, r.DB).
		Table("reports").
		Select(reportColumns).
		Joins("JOIN users ON users.id = reports.user_id")
}

func (r *reportRepo) list(_ context.Context, q *gorm.DB) ([]models.ReportView, error) {
	var rows []reportRow
	if err := q.Order("reports.created_at DESC").Order("reports.id DESC").Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list reports")
	}
	views := make([]models.ReportView, 0, len(rows))
	for _, row := range rows {
		v, err := row.view()
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// SetStatus allows any valid status from any status. Unknown ids are
// ErrReportNotFound rather than a silent no-op.
func (r *reportRepo) SetStatus(ctx context.Context, id uint, status models.ReportStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	res := conn(ctx, r.DB).Model(&models.Report{}).Where("id = ?", id).UpdateColumn("status", status)
	if res.Error != nil {
		return errors.Wrap(res.Error, "set report status")
	}
	if res.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}

// IncrementLikes bumps the counter with a single UPDATE and reads the new
// value back inside the same transaction.
func (r *reportRepo) IncrementLikes(ctx context.Context, id uint) (int, error) {
	var likes int
	err := runInTx(ctx, r.DB, func(ctx context.Context) error {
		res := conn(ctx, r.DB).Model(&models.Report{}).Where("id = ?", id).
			UpdateColumn("likes", gorm.Expr("likes + ?", 1))
		if res.Error != nil {
			return errors.Wrap(res.Error, "increment likes")
		}
		if res.RowsAffected == 0 {
			return ErrReportNotFound
		}
		var err error
		likes, err = r.GetLikes(ctx, id)
		return err
	})
	if err != nil {
		return 0, err
	}
	return likes, nil
}

func (r *reportRepo) GetLikes(ctx context.Context, id uint) (int, error) {
	var report models.Report
	err := conn(ctx, r.DB).Select("id", "likes").First(&report, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrReportNotFound
		}
		return 0, errors.Wrap(err, "get likes")
	}
	return report.Likes, nil
}
