package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"agriverse_backend/internal/model"
	"agriverse_backend/internal/repository"
	"agriverse_backend/internal/util"
	"agriverse_backend/pkg/database"
	"agriverse_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

var testDBCounter int

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDBCounter++
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedDefaultCatalog(db))

	return db
}

func newLearningService(db *gorm.DB) *LearningService {
	return NewLearningService(
		repository.NewModuleRepository(db),
		repository.NewProgressRepository(db),
		repository.NewFarmerRepository(db),
		nil,
		db,
	)
}

func TestGetOrInitProgressSnapshotsCatalog(t *testing.T) {
	db := setupTestDB(t)
	svc := newLearningService(db)

	progress, err := svc.GetOrInitProgress(1)
	require.NoError(t, err)

	require.Len(t, progress.Modules, 4)
	for _, mp := range progress.Modules {
		require.Len(t, mp.Videos, 3)
		for _, vp := range mp.Videos {
			assert.False(t, vp.Completed)
			assert.Empty(t, vp.ProofImage)
		}
		assert.False(t, mp.ModuleCompleted)
	}
	assert.Equal(t, 12, progress.TotalVideos)
	assert.Equal(t, uint(1), progress.CatalogVersion)
	assert.Equal(t, 0, progress.TotalProgress)

	// Second call returns the same record, not a fresh snapshot.
	again, err := svc.GetOrInitProgress(1)
	require.NoError(t, err)
	assert.Equal(t, progress.ID, again.ID)
}

func TestGetOrInitProgressConcurrentFirstAccess(t *testing.T) {
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps sqlite happy while the goroutines still race the
	// read-miss-then-create window at the service level.
	sqlDB.SetMaxOpenConns(1)

	svc := newLearningService(db)

	const callers = 4
	results := make([]*model.Progress, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.GetOrInitProgress(42)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
		assert.Equal(t, results[0].ID, results[i].ID)
	}

	var count int64
	require.NoError(t, db.Model(&model.Progress{}).Where("auth_id = ?", uint(42)).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetOrInitProgressDuplicateLoserReadsWinner(t *testing.T) {
	db := setupTestDB(t)
	svc := newLearningService(db)

	winner, err := svc.GetOrInitProgress(43)
	require.NoError(t, err)

	// A writer that raced past the initial read hits the unique auth_id
	// index and sees the translated duplicate-key error.
	err = repository.NewProgressRepository(db).Create(&model.Progress{AuthID: 43, TotalVideos: 12})
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// The retry hands back the winner's record instead of surfacing it.
	again, err := svc.GetOrInitProgress(43)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, again.ID)
}

func TestVideoKnown(t *testing.T) {
	db := setupTestDB(t)
	svc := newLearningService(db)

	require.NoError(t, svc.VideoKnown(1, "org_1_1"))
	assert.ErrorIs(t, svc.VideoKnown(1, "no_such_video"), util.ErrVideoNotFound)
}

func TestCompleteVideoUnknownID(t *testing.T) {
	db := setupTestDB(t)
	svc := newLearningService(db)

	_, err := svc.CompleteVideo(1, model.RoleUser, "no_such_video")
	assert.ErrorIs(t, err, util.ErrVideoNotFound)

	// The failed call must not have mutated the stored record.
	progress, err := svc.GetOrInitProgress(1)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.TotalProgress)
	assert.Equal(t, 0, progress.TotalProofs)
}

func TestCompleteVideoUpdatesTotals(t *testing.T) {
	db := setupTestDB(t)
	svc := newLearningService(db)

	videos := []string{"org_1_1", "org_1_2", "org_1_3", "water_2_1", "water_2_2", "water_2_3"}
	var result *ProgressResult
	var err error
	for _, id := range videos {
		result, err = svc.CompleteVideo(1, model.RoleUser, id)
		require.NoError(t, err)
	}

	assert.Equal(t, 50, result.TotalProgress)
	assert.Equal(t, 0, result.TotalProofs)
	assert.InDelta(t, 30.0, result.VerificationScore, 0.001)
	assert.False(t, result.CatalogStale)

	// Totals survive a reload.
	stored, err := svc.GetOrInitProgress(1)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.TotalProgress)
	assert.True(t, stored.Modules[0].ModuleCompleted)
}

func TestCompleteVideoIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newLearningService(db)

	first, err := svc.CompleteVideo(1, model.RoleUser, "org_1_1")
	require.NoError(t, err)

	second, err := svc.CompleteVideo(1, model.RoleUser, "org_1_1")
	require.NoError(t, err)

	assert.Equal(t, first.TotalProgress, second.TotalProgress)
	assert.Equal(t, first.TotalProofs, second.TotalProofs)
}

func TestSubmitProofScoring(t *testing.T) {
	db := setupTestDB(t)
	svc := newLearningService(db)

	for _, id := range []string{"org_1_1", "org_1_2", "org_1_3", "water_2_1", "water_2_2", "water_2_3"} {
		_, err := svc.CompleteVideo(1, model.RoleUser, id)
		require.NoError(t, err)
	}

	var result *ProgressResult
	var err error
	for _, id := range []string{"org_1_1", "org_1_2", "org_1_3"} {
		result, err = svc.SubmitProof(1, model.RoleUser, id, "/uploads/proofs/1-"+id+".jpg")
		require.NoError(t, err)
	}

	assert.Equal(t, 50, result.TotalProgress)
	assert.Equal(t, 3, result.TotalProofs)
	assert.InDelta(t, 40.0, result.VerificationScore, 0.001)
}

func TestSubmitProofReplaces(t *testing.T) {
	db := setupTestDB(t)
	svc := newLearningService(db)

	_, err := svc.SubmitProof(1, model.RoleUser, "org_1_1", "/uploads/proofs/1-a.jpg")
	require.NoError(t, err)

	result, err := svc.SubmitProof(1, model.RoleUser, "org_1_1", "/uploads/proofs/1-b.jpg")
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalProofs)
	assert.Equal(t, "/uploads/proofs/1-b.jpg", result.Progress.FindVideo("org_1_1").ProofImage)
}

func TestFarmerScoreSync(t *testing.T) {
	db := setupTestDB(t)
	svc := newLearningService(db)

	farmer := &model.Farmer{
		AuthID:   7,
		Name:     "Ramesh",
		Location: "Nashik",
		FarmSize: "2 acres",
		Phone:    "9000000007",
		Aadhaar:  "111122223333",
		Satbara:  "SB-7",
		Rank:     model.RankBronze,
	}
	require.NoError(t, db.Create(farmer).Error)

	for _, m := range model.DefaultCurriculum() {
		for _, v := range m.Videos {
			_, err := svc.CompleteVideo(7, model.RoleFarmer, v.VideoID)
			require.NoError(t, err)
			_, err = svc.SubmitProof(7, model.RoleFarmer, v.VideoID, "/uploads/proofs/7-"+v.VideoID+".jpg")
			require.NoError(t, err)
		}
	}

	var synced model.Farmer
	require.NoError(t, db.Where("auth_id = ?", uint(7)).First(&synced).Error)

	assert.InDelta(t, 100.0, synced.VerificationScore, 0.001)
	assert.True(t, synced.IsVerified)
	// Rating is still zero: 100*0.4 = 40 total, Silver tier.
	assert.InDelta(t, 40.0, synced.TotalScore, 0.001)
	assert.Equal(t, model.RankSilver, synced.Rank)
	assert.Equal(t, 10, synced.CommissionRate)
}

func TestFarmerRoleWithoutProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := newLearningService(db)

	// No farmer record exists for this auth id; progress still persists.
	result, err := svc.CompleteVideo(3, model.RoleFarmer, "org_1_1")
	require.NoError(t, err)
	assert.Equal(t, 8, result.TotalProgress)
}

func TestResetAllProgress(t *testing.T) {
	db := setupTestDB(t)
	svc := newLearningService(db)

	_, err := svc.CompleteVideo(1, model.RoleUser, "org_1_1")
	require.NoError(t, err)
	_, err = svc.CompleteVideo(2, model.RoleUser, "water_2_1")
	require.NoError(t, err)

	require.NoError(t, svc.ResetAllProgress(context.Background()))

	var count int64
	require.NoError(t, db.Model(&model.Progress{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// A learner coming back starts from a fresh snapshot.
	progress, err := svc.GetOrInitProgress(1)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.TotalProgress)
}

func TestReseedCatalogBumpsVersion(t *testing.T) {
	db := setupTestDB(t)
	svc := newLearningService(db)

	before, err := svc.DescribeProgress(1)
	require.NoError(t, err)
	assert.False(t, before.CatalogStale)

	version, err := svc.ReseedCatalog(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)

	// The pre-reseed snapshot is now flagged stale but keeps working.
	after, err := svc.DescribeProgress(1)
	require.NoError(t, err)
	assert.True(t, after.CatalogStale)
	assert.Equal(t, uint(1), after.Progress.CatalogVersion)

	// A new learner snapshots the reseeded catalog.
	fresh, err := svc.DescribeProgress(2)
	require.NoError(t, err)
	assert.False(t, fresh.CatalogStale)
	assert.Equal(t, uint(2), fresh.Progress.CatalogVersion)
}

func TestListModulesOrdered(t *testing.T) {
	db := setupTestDB(t)
	svc := newLearningService(db)

	modules, err := svc.ListModules(context.Background())
	require.NoError(t, err)
	require.Len(t, modules, 4)

	for i, m := range modules {
		assert.Equal(t, i+1, m.Order)
		require.Len(t, m.Videos, 3)
		for vi, v := range m.Videos {
			assert.Equal(t, vi+1, v.Order)
		}
	}
}
