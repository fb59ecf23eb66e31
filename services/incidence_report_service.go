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

// SubmitReportInput is a parsed submission. A nil Issues, Details or
// Location means the field was absent; empty values are allowed.
type SubmitReportInput struct {
	UserID       uint
	Issues       []string
	Details      *string
	Location     *string
	Image        []byte
	FilenameHint string
}

type ReportService interface {
	SubmitReport(ctx context.Context, in SubmitReportInput) (*models.SubmitReportResponse, error)
	GetReport(ctx context.Context, id uint) (*models.ReportView, error)
	ListAllReports(ctx context.Context) ([]models.ReportView, error)
	ListUserReports(ctx context.Context, userID uint) ([]models.ReportView, error)
	SetStatus(ctx context.Context, id uint, status string) error
}

type reportService struct {
	Config     *config.Config
	reportRepo db.ReportRepository
	authRepo   db.AuthRepository
	media      MediaService
	backup     BackupSink
	log        zerolog.Logger
}

func NewReportService(reportRepo db.ReportRepository, authRepo db.AuthRepository, media MediaService, backup BackupSink, conf *config.Config, log zerolog.Logger) ReportService {
	if backup == nil {
		backup = NopBackupSink{}
	}
	return &reportService{
		Config:     conf,
		reportRepo: reportRepo,
		authRepo:   authRepo,
		media:      media,
		backup:     backup,
		log:        log.With().Str("component", "reports").Logger(),
	}
}

func (in SubmitReportInput) validate() error {
	switch {
	case in.UserID == 0:
		return apiError.NewValidationError("user_id", "user_id is required")
	case in.Issues == nil:
		return apiError.NewValidationError("issues", "issues is required")
	case in.Details == nil:
		return apiError.NewValidationError("details", "details is required")
	case in.Location == nil:
		return apiError.NewValidationError("location", "location is required")
	case len(in.Image) == 0:
		return apiError.NewValidationError("image", "image is required")
	}
	return nil
}

// SubmitReport stores the image, then the report row, then a backup record.
// The image is removed again if the row cannot be written.
func (r *reportService) SubmitReport(ctx context.Context, in SubmitReportInput) (*models.SubmitReportResponse, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	exists, err := r.authRepo.UserExists(ctx, in.UserID)
	if err != nil {
		return nil, apiError.Internal(err)
	}
	if !exists {
		return nil, apiError.NewNotFoundError("user", in.UserID)
	}

	img, err := r.media.SaveImage(ctx, in.Image, in.FilenameHint)
	if err != nil {
		return nil, err
	}

	view, err := r.reportRepo.Insert(ctx, models.NewReport{
		UserID:    in.UserID,
		Issues:    in.Issues,
		Details:   *in.Details,
		Location:  *in.Location,
		ImagePath: img.Ref,
	})
	if err != nil {
		if delErr := r.media.DeleteImage(context.WithoutCancel(ctx), img.Name); delErr != nil {
			r.log.Warn().Err(delErr).Str("image", img.Name).Msg("failed to remove orphaned image")
		}
		if errors.Is(err, db.ErrInvalidReference) {
			return nil, apiError.NewNotFoundError("user", in.UserID)
		}
		return nil, apiError.Internal(err)
	}

	metrics.ReportsSubmitted.Inc()
	r.writeBackup(ctx, view)

	return &models.SubmitReportResponse{
		ReportID:  view.ID,
		ImagePath: view.ImagePath,
		Status:    view.Status,
		CreatedAt: view.CreatedAt,
	}, nil
}

func (r *reportService) writeBackup(ctx context.Context, view *models.ReportView) {
	record := models.BackupRecord{
		ReportID:  view.ID,
		UserID:    view.UserID,
		Issues:    view.Issues,
		Details:   view.Details,
		Location:  view.Location,
		ImagePath: view.ImagePath,
		CreatedAt: view.CreatedAt,
	}
	if err := r.backup.Write(ctx, record); err != nil {
		metrics.BackupFailures.WithLabelValues(r.backup.Name()).Inc()
		r.log.Warn().Err(err).Uint("report_id", view.ID).Str("sink", r.backup.Name()).Msg("backup record not written")
	}
}

func (r *reportService) GetReport(ctx context.Context, id uint) (*models.ReportView, error) {
	view, err := r.reportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrReportNotFound) {
			return nil, apiError.NewNotFoundError("report", id)
		}
		return nil, apiError.Internal(err)
	}
	return view, nil
}

func (r *reportService) ListAllReports(ctx context.Context) ([]models.ReportView, error) {
	views, err := r.reportRepo.ListAll(ctx)
	if err != nil {
		return nil, apiError.Internal(err)
	}
	return views, nil
}

func (r *reportService) ListUserReports(ctx context.Context, userID uint) ([]models.ReportView, error) {
	if userID == 0 {
		return nil, apiError.NewValidationError("user_id", "user_id is required")
	}
	views, err := r.reportRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, apiError.Internal(err)
	}
	return views, nil
}

// SetStatus accepts pending, solving or done from any current status.
func (r *reportService) SetStatus(ctx context.Context, id uint, status string) error {
	st, ok := models.ParseReportStatus(status)
	if !ok {
		return apiError.NewValidationError("status", "status must be one of pending, solving, done")
	}
	if err := r.reportRepo.SetStatus(ctx, id, st); err != nil {
		switch {
		case errors.Is(err, db.ErrReportNotFound):
			return apiError.NewNotFoundError("report", id)
		case errors.Is(err, db.ErrInvalidStatus):
			return apiError.NewValidationError("status", "status must be one of pending, solving, done")
		}
		return apiError.Internal(err)
	}
	metrics.StatusUpdates.WithLabelValues(string(st)).Inc()
	r.log.Info().Uint("report_id", id).Str("status", string(st)).Msg("report status updated")
	return nil
}
