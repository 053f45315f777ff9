package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev1mple/attendance-oop/models"
)

func TestApplyReviewDecidesPendingLetter(t *testing.T) {
	letter := models.ExcuseLetter{ExcuseID: 1, Status: models.ExcusePending}
	now := time.Now()

	require.NoError(t, applyReview(&letter, models.ExcuseApproved, "  medical certificate attached ", 7, now))
	assert.Equal(t, models.ExcuseApproved, letter.Status)
	assert.Equal(t, "medical certificate attached", letter.AdminRemarks)
	require.NotNil(t, letter.DecidedAt)
	assert.Equal(t, now, *letter.DecidedAt)
	require.NotNil(t, letter.AdminReviewedBy)
	assert.Equal(t, uint(7), *letter.AdminReviewedBy)
}

func TestApplyReviewRefusesSecondDecision(t *testing.T) {
	letter := models.ExcuseLetter{ExcuseID: 1, Status: models.ExcusePending}
	require.NoError(t, applyReview(&letter, models.ExcuseApproved, "ok", 7, time.Now()))

	// a second reviewer cannot flip an already-decided letter
	err := applyReview(&letter, models.ExcuseRejected, "changed my mind", 8, time.Now())
	assert.ErrorIs(t, err, errAlreadyDecided)
	assert.Equal(t, models.ExcuseApproved, letter.Status)
	assert.Equal(t, "ok", letter.AdminRemarks)
	assert.Equal(t, uint(7), *letter.AdminReviewedBy)
}
