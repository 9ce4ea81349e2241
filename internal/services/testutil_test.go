package services

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wellyonfilm/internal/config"
	"wellyonfilm/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// A named shared-cache memory DB keeps the data visible across
	// gorm's pooled connections while isolating each test.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Month{},
		&models.Submission{},
		&models.JudgeAssignment{},
		&models.JudgeAction{},
		&models.RaffleWinner{},
		&models.Comment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func testLimits() config.SubmissionConfig {
	return config.SubmissionConfig{
		MaxPerMonth:       3,
		MinImageDimension: 1,
		MaxImageDimension: 8000,
		MaxFileSizeMB:     50,
		OpenDay:           1,
		CloseDay:          25,
	}
}

// fakeStorage keeps photo bytes out of the filesystem during tests
type fakeStorage struct{}

func (fakeStorage) SavePhoto(id uuid.UUID, ext string, data []byte) (string, error) {
	return "/static/photos/" + id.String() + ext, nil
}

func (fakeStorage) SaveThumbnail(id uuid.UUID, data []byte) (string, error) {
	return "/static/thumbnails/" + id.String() + ".jpg", nil
}

func testPNG(t *testing.T) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func createTestUser(t *testing.T, db *gorm.DB, name string, role models.UserRole) *models.User {
	user := models.User{
		ID:           uuid.New(),
		Email:        name + "@example.com",
		PasswordHash: "x",
		DisplayName:  name,
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return &user
}

func createTestMonth(t *testing.T, db *gorm.DB, monthYear string, status models.MonthStatus) *models.Month {
	open := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	month := models.Month{
		ID:               uuid.New(),
		MonthYear:        monthYear,
		ThemeName:        "Reflections",
		SubmissionsOpen:  open,
		SubmissionsClose: open.AddDate(0, 0, 24),
		Status:           status,
	}
	if err := db.Create(&month).Error; err != nil {
		t.Fatalf("failed to create month %s: %v", monthYear, err)
	}
	return &month
}

func createTestSubmission(t *testing.T, svc *SubmissionService, userID uuid.UUID, monthYear string, categoryType models.CategoryType, category *string) *models.Submission {
	t.Helper()
	sub, err := svc.CreateSubmission(CreateSubmissionInput{
		UserID:       userID,
		MonthYear:    monthYear,
		CategoryType: categoryType,
		Category:     category,
		PhotoData:    testPNG(t),
	})
	if err != nil {
		t.Fatalf("CreateSubmission failed: %v", err)
	}
	return sub
}

func strptr(s string) *string {
	return &s
}
