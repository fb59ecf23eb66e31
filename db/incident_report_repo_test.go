package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreicopos/UrbanEye/db"
	"github.com/andreicopos/UrbanEye/models"
	"github.com/andreicopos/UrbanEye/testutil"
)

func insertReport(t *testing.T, repo db.ReportRepository, userID uint, issues ...string) *models.ReportView {
	t.Helper()
	view, err := repo.Insert(context.Background(), models.NewReport{
		UserID:    userID,
		Issues:    issues,
		Details:   "deep crack",
		Location:  "Main St",
		ImagePath: "/images/report.jpg",
	})
	require.NoError(t, err)
	return view
}

func TestInsertReportDefaults(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	repo := db.NewReportRepo(gdb)
	owner := testutil.CreateUser(t, gdb, "Ana", "Pop")

	view := insertReport(t, repo, owner.ID, "pothole", "litter")

	assert.NotZero(t, view.ID)
	assert.Equal(t, models.StatusPending, view.Status)
	assert.Equal(t, 0, view.Likes)
	assert.Equal(t, "Ana Pop", view.UserName)
	assert.Equal(t, []string{"pothole", "litter"}, view.Issues)
	assert.False(t, view.CreatedAt.IsZero())
}

func TestInsertReportUnknownOwner(t *testing.T) {
	repo := db.NewReportRepo(testutil.NewTestDB(t))

	_, err := repo.Insert(context.Background(), models.NewReport{UserID: 42, Issues: []string{"pothole"}})
	assert.ErrorIs(t, err, db.ErrInvalidReference)
}

func TestGetByIDRoundTripsIssues(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	repo := db.NewReportRepo(gdb)
	owner := testutil.CreateUser(t, gdb, "Ana", "Pop")
	created := insertReport(t, repo, owner.ID, "pothole", "broken, sign")

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"pothole", "broken, sign"}, got.Issues)
	assert.Equal(t, "deep crack", got.Details)
	assert.Equal(t, "Main St", got.Location)

	_, err = repo.GetByID(context.Background(), created.ID+1)
	assert.ErrorIs(t, err, db.ErrReportNotFound)
}

func TestEmptyIssuesDecodeAsEmptyList(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	repo := db.NewReportRepo(gdb)
	owner := testutil.CreateUser(t, gdb, "Ana", "Pop")
	created := insertReport(t, repo, owner.ID)

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Issues)
	assert.Empty(t, got.Issues)
}

func TestListAllNewestFirst(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	repo := db.NewReportRepo(gdb)
	a := testutil.CreateUser(t, gdb, "Ana", "Pop")
	b := testutil.CreateUser(t, gdb, "Bogdan", "Ionescu")

	first := insertReport(t, repo, a.ID, "pothole")
	second := insertReport(t, repo, b.ID, "litter")
	third := insertReport(t, repo, a.ID, "graffiti")

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uint{third.ID, second.ID, first.ID}, []uint{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, "Bogdan Ionescu", all[1].UserName)
	assert.Equal(t, []string{"litter"}, all[1].Issues)
}

func TestListForUser(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	repo := db.NewReportRepo(gdb)
	a := testutil.CreateUser(t, gdb, "Ana", "Pop")
	b := testutil.CreateUser(t, gdb, "Bogdan", "Ionescu")

	insertReport(t, repo, a.ID, "pothole")
	insertReport(t, repo, b.ID, "litter")
	latest := insertReport(t, repo, a.ID, "graffiti")

	mine, err := repo.ListForUser(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, latest.ID, mine[0].ID)
	for _, r := range mine {
		assert.Equal(t, a.ID, r.UserID)
	}

	none, err := repo.ListForUser(context.Background(), 999)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestSetStatusAnyTransition(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	repo := db.NewReportRepo(gdb)
	owner := testutil.CreateUser(t, gdb, "Ana", "Pop")
	report := insertReport(t, repo, owner.ID, "pothole")
	ctx := context.Background()

	for _, st := range []models.ReportStatus{models.StatusSolving, models.StatusDone, models.StatusPending, models.StatusDone} {
		require.NoError(t, repo.SetStatus(ctx, report.ID, st))
		got, err := repo.GetByID(ctx, report.ID)
		require.NoError(t, err)
		assert.Equal(t, st, got.Status)
	}
}

func TestSetStatusRejectsUnknownToken(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	repo := db.NewReportRepo(gdb)
	owner := testutil.CreateUser(t, gdb, "Ana", "Pop")
	report := insertReport(t, repo, owner.ID, "pothole")

	err := repo.SetStatus(context.Background(), report.ID, models.ReportStatus("urgent"))
	assert.ErrorIs(t, err, db.ErrInvalidStatus)

	got, err := repo.GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestSetStatusUnknownReport(t *testing.T) {
	repo := db.NewReportRepo(testutil.NewTestDB(t))

	err := repo.SetStatus(context.Background(), 77, models.StatusDone)
	assert.ErrorIs(t, err, db.ErrReportNotFound)
}

func TestIncrementLikes(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	repo := db.NewReportRepo(gdb)
	owner := testutil.CreateUser(t, gdb, "Ana", "Pop")
	report := insertReport(t, repo, owner.ID, "pothole")
	ctx := context.Background()

	n, err := repo.IncrementLikes(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.IncrementLikes(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	likes, err := repo.GetLikes(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, likes)

	_, err = repo.IncrementLikes(ctx, report.ID+5)
	assert.ErrorIs(t, err, db.ErrReportNotFound)

	_, err = repo.GetLikes(ctx, report.ID+5)
	assert.ErrorIs(t, err, db.ErrReportNotFound)
}

func TestCorruptIssuesSurfaceAsError(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	repo := db.NewReportRepo(gdb)
	owner := testutil.CreateUser(t, gdb, "Ana", "Pop")
	report := insertReport(t, repo, owner.ID, "pothole")

	require.NoError(t, gdb.DB.Exec("UPDATE reports SET issues = ? WHERE id = ?", "pothole", report.ID).Error)

	_, err := repo.GetByID(context.Background(), report.ID)
	assert.ErrorIs(t, err, db.ErrCorruptIssues)

	_, err = repo.ListAll(context.Background())
	assert.ErrorIs(t, err, db.ErrCorruptIssues)
}
