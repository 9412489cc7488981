package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mwangikelvin/referral_bridge/database"
	"github.com/mwangikelvin/referral_bridge/models"
	"github.com/mwangikelvin/referral_bridge/workflow"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the package-global connection at a fresh in-memory
// database named after the test, so tests stay isolated from each other.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ReferralOffering{},
		&models.ReferralRequest{},
		&models.RequestTimelineEvent{},
	))

	database.DB = db
}

func seedUsers(t *testing.T) (student, mentor models.User) {
	t.Helper()

	student = models.User{FullName: "Asha Verma", Email: "asha@example.com", Password: "x", Role: "student", IsActive: true}
	mentor = models.User{FullName: "Rohit Menon", Email: "rohit@example.com", Password: "x", Role: "mentor", IsActive: true}
	require.NoError(t, database.DB.Create(&student).Error)
	require.NoError(t, database.DB.Create(&mentor).Error)
	return student, mentor
}

func seedOffering(t *testing.T, mentorID uuid.UUID) models.ReferralOffering {
	t.Helper()

	offering := models.ReferralOffering{
		MentorID:            mentorID,
		Title:               "Backend referrals at product companies",
		CompaniesCanReferTo: []string{"Acme", "Initech"},
		Positions:           []string{"Backend Engineer", "SRE"},
		InitiationFeeAmount: 9900,
		FinalFeeAmount:      199900,
		Currency:            "INR",
		IsActive:            true,
	}
	require.NoError(t, database.DB.Create(&offering).Error)
	return offering
}

func seedRequest(t *testing.T, studentID uuid.UUID, offering models.ReferralOffering) *models.ReferralRequest {
	t.Helper()

	request, err := CreateReferralRequest(studentID, offering.ID, "Acme", "Backend Engineer",
		"https://acme.example.com/jobs/42", "https://cdn.example.com/resume.pdf", nil)
	require.NoError(t, err)
	return request
}

// forceStatus moves a request into a given state directly, bypassing the
// engine, so tests can start mid-lifecycle.
func forceStatus(t *testing.T, requestID uuid.UUID, status workflow.Status, updates map[string]interface{}) {
	t.Helper()

	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = string(status)
	require.NoError(t, database.DB.Model(&models.ReferralRequest{}).
		Where("id = ?", requestID).Updates(updates).Error)
}

func getRequest(t *testing.T, requestID uuid.UUID) *models.ReferralRequest {
	t.Helper()

	var request models.ReferralRequest
	require.NoError(t, database.DB.First(&request, "id = ?", requestID).Error)
	return &request
}

func checkoutSignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
