package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreicopos/UrbanEye/db"
	apiError "github.com/andreicopos/UrbanEye/errors"
	"github.com/andreicopos/UrbanEye/logger"
	"github.com/andreicopos/UrbanEye/models"
	"github.com/andreicopos/UrbanEye/services"
	"github.com/andreicopos/UrbanEye/testutil"
)

func TestSubmitThenListForUserRoundTrips(t *testing.T) {
	f := newFixture(t, nil)
	owner := testutil.CreateUser(t, f.gdb, "Ana", "Pop")
	ctx := context.Background()
	issues := []string{"pothole", "litter, bags", "graffiti"}

	res, err := f.reportService.SubmitReport(ctx, services.SubmitReportInput{
		UserID:       owner.ID,
		Issues:       issues,
		Details:      strPtr("deep crack"),
		Location:     strPtr("Main St"),
		Image:        testutil.PNG(t, 20, 10),
		FilenameHint: "IMG_001.PNG",
	})
	require.NoError(t, err)
	assert.NotZero(t, res.ReportID)
	assert.Equal(t, models.StatusPending, res.Status)
	assert.True(t, strings.HasPrefix(res.ImagePath, "/images/report_"), res.ImagePath)
	assert.True(t, strings.HasSuffix(res.ImagePath, ".png"), res.ImagePath)

	mine, err := f.reportService.ListUserReports(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, res.ReportID, mine[0].ID)
	assert.Equal(t, issues, mine[0].Issues)
	assert.Equal(t, "Ana Pop", mine[0].UserName)
	assert.Equal(t, res.ImagePath, mine[0].ImagePath)

	name := strings.TrimPrefix(res.ImagePath, "/images/")
	_, err = os.Stat(filepath.Join(f.conf.ImagesDir, name))
	assert.NoError(t, err)
}

func TestSubmitWritesBackupRecord(t *testing.T) {
	f := newFixture(t, nil)
	owner := testutil.CreateUser(t, f.gdb, "Ana", "Pop")

	res := submitSample(t, f, owner.ID, "pothole")

	entries, err := os.ReadDir(f.conf.ReportsDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(f.conf.ReportsDir, entries[0].Name()))
	require.NoError(t, err)
	var record models.BackupRecord
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, res.ReportID, record.ReportID)
	assert.Equal(t, owner.ID, record.UserID)
	assert.Equal(t, []string{"pothole"}, record.Issues)
	assert.Equal(t, res.ImagePath, record.ImagePath)
}

type failingSink struct{ calls int }

func (s *failingSink) Name() string { return "failing" }

func (s *failingSink) Write(context.Context, models.BackupRecord) error {
	s.calls++
	return errors.New("disk full")
}

func TestSubmitSucceedsWhenBackupFails(t *testing.T) {
	sink := &failingSink{}
	f := newFixture(t, sink)
	owner := testutil.CreateUser(t, f.gdb, "Ana", "Pop")

	res := submitSample(t, f, owner.ID, "pothole")
	assert.NotZero(t, res.ReportID)
	assert.Equal(t, 1, sink.calls)

	view, err := f.reportService.GetReport(context.Background(), res.ReportID)
	require.NoError(t, err)
	assert.Equal(t, []string{"pothole"}, view.Issues)
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t, nil)
	owner := testutil.CreateUser(t, f.gdb, "Ana", "Pop")
	img := testutil.PNG(t, 8, 8)

	valid := func() services.SubmitReportInput {
		return services.SubmitReportInput{
			UserID:   owner.ID,
			Issues:   []string{"pothole"},
			Details:  strPtr(""),
			Location: strPtr(""),
			Image:    img,
		}
	}

	tests := []struct {
		name   string
		mutate func(in *services.SubmitReportInput)
		field  string
	}{
		{"missing user", func(in *services.SubmitReportInput) { in.UserID = 0 }, "user_id"},
		{"missing issues", func(in *services.SubmitReportInput) { in.Issues = nil }, "issues"},
		{"missing details", func(in *services.SubmitReportInput) { in.Details = nil }, "details"},
		{"missing location", func(in *services.SubmitReportInput) { in.Location = nil }, "location"},
		{"missing image", func(in *services.SubmitReportInput) { in.Image = nil }, "image"},
		{"not an image", func(in *services.SubmitReportInput) { in.Image = []byte("plain text, not pixels") }, "image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			_, err := f.reportService.SubmitReport(context.Background(), in)
			require.Error(t, err)
			var apiErr *apiError.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, apiError.KindValidation, apiErr.Kind)
			assert.Equal(t, tt.field, apiErr.Field)
		})
	}

	// Empty details, location and issues are present, so they are accepted.
	in := valid()
	in.Issues = []string{}
	_, err := f.reportService.SubmitReport(context.Background(), in)
	assert.NoError(t, err)
}

func TestSubmitUnknownUser(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.reportService.SubmitReport(context.Background(), services.SubmitReportInput{
		UserID:   99,
		Issues:   []string{"pothole"},
		Details:  strPtr("x"),
		Location: strPtr("y"),
		Image:    testutil.PNG(t, 8, 8),
	})
	assert.ErrorIs(t, err, apiError.ErrNotFound)

	entries, err := os.ReadDir(f.conf.ImagesDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type brokenReports struct {
	db.ReportRepository
}

func (brokenReports) Insert(context.Context, models.NewReport) (*models.ReportView, error) {
	return nil, errors.New("connection reset")
}

func TestSubmitRemovesImageWhenInsertFails(t *testing.T) {
	f := newFixture(t, nil)
	owner := testutil.CreateUser(t, f.gdb, "Ana", "Pop")
	svc := services.NewReportService(brokenReports{f.reports}, f.auth, f.mediaService, services.NopBackupSink{}, f.conf, logger.Nop())

	_, err := svc.SubmitReport(context.Background(), services.SubmitReportInput{
		UserID:   owner.ID,
		Issues:   []string{"pothole"},
		Details:  strPtr("x"),
		Location: strPtr("y"),
		Image:    testutil.PNG(t, 8, 8),
	})
	var apiErr *apiError.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apiError.KindInternal, apiErr.Kind)

	entries, err := os.ReadDir(f.conf.ImagesDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSetStatusWorkflow(t *testing.T) {
	f := newFixture(t, nil)
	owner := testutil.CreateUser(t, f.gdb, "Ana", "Pop")
	report := submitSample(t, f, owner.ID, "pothole")
	ctx := context.Background()

	for _, st := range []string{"solving", "done", "pending"} {
		require.NoError(t, f.reportService.SetStatus(ctx, report.ReportID, st))
	}

	err := f.reportService.SetStatus(ctx, report.ReportID, "urgent")
	var apiErr *apiError.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apiError.KindValidation, apiErr.Kind)
	assert.Equal(t, "status", apiErr.Field)

	for _, st := range []string{" done ", "done\n", "\tpending ", "DONE"} {
		err := f.reportService.SetStatus(ctx, report.ReportID, st)
		require.ErrorAs(t, err, &apiErr, "%q", st)
		assert.Equal(t, "status", apiErr.Field, "%q", st)
	}

	err = f.reportService.SetStatus(ctx, report.ReportID+1, "done")
	assert.ErrorIs(t, err, apiError.ErrNotFound)

	view, err := f.reportService.GetReport(ctx, report.ReportID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, view.Status)
}

func TestListAllReportsNewestFirst(t *testing.T) {
	f := newFixture(t, nil)
	a := testutil.CreateUser(t, f.gdb, "Ana", "Pop")
	b := testutil.CreateUser(t, f.gdb, "Bogdan", "Ionescu")

	first := submitSample(t, f, a.ID, "pothole")
	second := submitSample(t, f, b.ID, "litter")

	all, err := f.reportService.ListAllReports(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ReportID, all[0].ID)
	assert.Equal(t, first.ReportID, all[1].ID)
	assert.Equal(t, "Bogdan Ionescu", all[0].UserName)

	_, err = f.reportService.ListUserReports(context.Background(), 0)
	assert.ErrorIs(t, err, apiError.ErrValidation)

	_, err = f.reportService.GetReport(context.Background(), 12345)
	assert.ErrorIs(t, err, apiError.ErrNotFound)
}
