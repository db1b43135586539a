package controller

import (
	"bytes"
	"fmt"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"agriverse_backend/internal/config"
	"agriverse_backend/internal/model"
	"agriverse_backend/internal/repository"
	"agriverse_backend/internal/service"
	"agriverse_backend/internal/util"
	"agriverse_backend/pkg/database"
	"agriverse_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

var ctrlDBCounter int

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	ctrlDBCounter++
	dsn := fmt.Sprintf("file:ctrl_test_%d?mode=memory&cache=shared", ctrlDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedDefaultCatalog(db))

	return db
}

// newProofRouter wires SubmitProof behind a stub auth layer writing to a
// throwaway local storage directory.
func newProofRouter(t *testing.T, db *gorm.DB, uploadDir string) *gin.Engine {
	t.Helper()

	cfg := &config.Config{}
	cfg.Upload.MaxProofSizeMB = 5
	cfg.Storage.Type = util.StorageLocal
	cfg.Storage.LocalPath = uploadDir

	learningService := service.NewLearningService(
		repository.NewModuleRepository(db),
		repository.NewProgressRepository(db),
		repository.NewFarmerRepository(db),
		nil,
		db,
	)
	ctrl := NewLearningController(learningService, service.NewStorageService(cfg), cfg)

	router := gin.New()
	router.POST("/api/learning/submit-proof/:videoId", func(c *gin.Context) {
		c.Set("user", &util.Claims{UserID: 9, Role: model.RoleUser})
	}, ctrl.SubmitProof)
	return router
}

func proofRequest(t *testing.T, target string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("proof", "field.png")
	require.NoError(t, err)
	_, err = part.Write(append([]byte("\x89PNG\r\n\x1a\n"), []byte("pixels")...))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func storedFiles(t *testing.T, root string) []string {
	t.Helper()

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestSubmitProofUnknownVideoStoresNothing(t *testing.T) {
	db := setupTestDB(t)
	uploadDir := t.TempDir()
	router := newProofRouter(t, db, uploadDir)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, proofRequest(t, "/api/learning/submit-proof/no_such_video"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, storedFiles(t, uploadDir))
}

func TestSubmitProofStoresImageAndRecordsIt(t *testing.T) {
	db := setupTestDB(t)
	uploadDir := t.TempDir()
	router := newProofRouter(t, db, uploadDir)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, proofRequest(t, "/api/learning/submit-proof/org_1_1"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, storedFiles(t, uploadDir), 1)

	var progress model.Progress
	require.NoError(t, db.Preload("Modules.Videos").Where("auth_id = ?", uint(9)).First(&progress).Error)
	video := progress.FindVideo("org_1_1")
	require.NotNil(t, video)
	assert.NotEmpty(t, video.ProofImage)
	assert.Equal(t, 1, progress.TotalProofs)
}
