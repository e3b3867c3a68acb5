// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/lppm/internal/core/workflow"
)

func TestTransitions(t *testing.T) {
	assert.True(t, workflow.CanSubmit(workflow.StatusDraft))
	assert.False(t, workflow.CanSubmit(workflow.StatusSubmitted))

	assert.Equal(t, workflow.StatusUnderReview, workflow.AfterReview(workflow.StatusSubmitted))
	assert.Equal(t, workflow.StatusUnderReview, workflow.AfterReview(workflow.StatusUnderReview))

	assert.True(t, workflow.CanDecide(workflow.StatusUnderReview, workflow.StatusApproved))
	assert.True(t, workflow.CanDecide(workflow.StatusSubmitted, workflow.StatusRejected))
	assert.False(t, workflow.CanDecide(workflow.StatusDraft, workflow.StatusApproved))
	assert.False(t, workflow.CanDecide(workflow.StatusUnderReview, workflow.StatusDraft))
	assert.False(t, workflow.CanDecide(workflow.StatusApproved, workflow.StatusRejected))
}

func TestParseStatus(t *testing.T) {
	status, err := workflow.ParseStatus("under_review")
	assert.NoError(t, err)
	assert.Equal(t, workflow.StatusUnderReview, status)

	_, err = workflow.ParseStatus("archived")
	assert.Error(t, err)
}
