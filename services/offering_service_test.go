package services

import (
	"testing"

	"github.com/mwangikelvin/referral_bridge/database"
	"github.com/mwangikelvin/referral_bridge/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOfferingCreateAndUpdate(t *testing.T) {
	setupTestDB(t)
	_, mentor := seedUsers(t)

	offering, err := CreateOffering(mentor.ID, OfferingInput{
		Title:               "FAANG referrals",
		CompaniesCanReferTo: []string{"Acme"},
		Positions:           []string{"Backend Engineer"},
		InitiationFeeAmount: 9900,
		FinalFeeAmount:      199900,
	})
	require.NoError(t, err)
	assert.True(t, offering.IsActive)
	assert.Equal(t, "INR", offering.Currency)

	updated, err := UpdateOffering(offering.ID, mentor.ID, OfferingInput{
		Title:               "FAANG and fintech referrals",
		CompaniesCanReferTo: []string{"Acme", "Initech"},
		Positions:           []string{"Backend Engineer", "SRE"},
		InitiationFeeAmount: 14900,
		FinalFeeAmount:      249900,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(14900), updated.InitiationFeeAmount)
	assert.Len(t, updated.CompaniesCanReferTo, 2)
}

func TestOfferingUpdateScopedToOwner(t *testing.T) {
	setupTestDB(t)
	student, mentor := seedUsers(t)
	offering := seedOffering(t, mentor.ID)

	_, err := UpdateOffering(offering.ID, student.ID, OfferingInput{Title: "hijacked"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSetOfferingActiveTogglesOnlyVisibility(t *testing.T) {
	setupTestDB(t)
	_, mentor := seedUsers(t)
	offering := seedOffering(t, mentor.ID)

	require.NoError(t, SetOfferingActive(offering.ID, mentor.ID, false))

	after, err := GetOffering(offering.ID)
	require.NoError(t, err)
	assert.False(t, after.IsActive)
	// Everything else untouched.
	assert.Equal(t, offering.Title, after.Title)
	assert.Equal(t, offering.FinalFeeAmount, after.FinalFeeAmount)

	listed, err := ListOfferings("", "")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestDeleteOfferingKeepsRequestFees(t *testing.T) {
	setupTestDB(t)
	student, mentor := seedUsers(t)
	offering := seedOffering(t, mentor.ID)
	request := seedRequest(t, student.ID, offering)

	require.NoError(t, DeleteOffering(offering.ID, mentor.ID))
	_, err := GetOffering(offering.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	after := getRequest(t, request.ID)
	assert.Equal(t, int64(9900), after.InitiationFee.Amount)
	assert.Equal(t, int64(199900), after.FinalFee.Amount)

	// Bumping the success counter for a deleted offering is a quiet no-op.
	IncrementOfferingSuccess(request.OfferingID)
}

func TestListOfferingsFilters(t *testing.T) {
	setupTestDB(t)
	_, mentor := seedUsers(t)
	seedOffering(t, mentor.ID)

	other, err := CreateOffering(mentor.ID, OfferingInput{
		Title:               "Data referrals",
		CompaniesCanReferTo: []string{"Globex"},
		Positions:           []string{"Data Engineer"},
		InitiationFeeAmount: 4900,
		FinalFeeAmount:      99900,
	})
	require.NoError(t, err)

	listed, err := ListOfferings("Globex", "")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, other.ID, listed[0].ID)

	listed, err = ListOfferings("", "SRE")
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestIncrementOfferingSuccess(t *testing.T) {
	setupTestDB(t)
	_, mentor := seedUsers(t)
	offering := seedOffering(t, mentor.ID)

	IncrementOfferingSuccess(&offering.ID)
	IncrementOfferingSuccess(&offering.ID)

	var after models.ReferralOffering
	require.NoError(t, database.DB.First(&after, "id = ?", offering.ID).Error)
	assert.Equal(t, 2, after.ReferralSuccessCount)
}
