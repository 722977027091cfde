package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallhub/recall-service/internal/models"
)

func standardOptions() []models.Option {
	return []models.Option{
		{Key: "A", Text: "Aspirin"},
		{Key: "B", Text: "Heparin"},
		{Key: "C", Text: "Warfarin"},
	}
}

func TestQuestionValidator_ValidateSubmission(t *testing.T) {
	v := NewQuestionValidator()

	t.Run("valid single-answer question", func(t *testing.T) {
		errs := v.ValidateSubmission(
			"First-line antiplatelet for suspected MI?", "MRCP", "Cardiology",
			standardOptions(), []string{"A"}, models.AnswerSingle)
		assert.Empty(t, errs)
	})

	t.Run("free-recall question needs no options", func(t *testing.T) {
		errs := v.ValidateSubmission(
			"Name the triad of normal pressure hydrocephalus.", "USMLE Step 1", "Neurology",
			nil, nil, models.AnswerSingle)
		assert.Empty(t, errs)
	})

	t.Run("blank required fields are all reported at once", func(t *testing.T) {
		errs := v.ValidateSubmission("  ", "", "", nil, nil, models.AnswerSingle)
		require.Len(t, errs, 3)
	})

	t.Run("options without a correct answer", func(t *testing.T) {
		errs := v.ValidateSubmission(
			"Question text", "MRCP", "Cardiology",
			standardOptions(), nil, models.AnswerSingle)
		require.Len(t, errs, 1)
		assert.Equal(t, "correct_answers", errs[0].Field)
	})

	t.Run("correct answers without options", func(t *testing.T) {
		errs := v.ValidateSubmission(
			"Question text", "MRCP", "Cardiology",
			nil, []string{"A"}, models.AnswerSingle)
		require.Len(t, errs, 1)
		assert.Equal(t, "correct_answers", errs[0].Field)
	})

	t.Run("correct answer must reference an existing key", func(t *testing.T) {
		errs := v.ValidateSubmission(
			"Question text", "MRCP", "Cardiology",
			standardOptions(), []string{"E"}, models.AnswerSingle)
		require.NotEmpty(t, errs)
		assert.Equal(t, "correct_answers", errs[0].Field)
	})

	t.Run("duplicate option keys", func(t *testing.T) {
		opts := append(standardOptions(), models.Option{Key: "A", Text: "Duplicate"})
		errs := v.ValidateSubmission(
			"Question text", "MRCP", "Cardiology",
			opts, []string{"A"}, models.AnswerSingle)
		assert.NotEmpty(t, errs)
	})

	t.Run("option key outside A-G", func(t *testing.T) {
		opts := []models.Option{{Key: "Z", Text: "Bad key"}}
		errs := v.ValidateSubmission(
			"Question text", "MRCP", "Cardiology",
			opts, []string{"Z"}, models.AnswerSingle)
		assert.NotEmpty(t, errs)
	})

	t.Run("too many options", func(t *testing.T) {
		opts := make([]models.Option, 0, 8)
		for _, key := range []string{"A", "B", "C", "D", "E", "F", "G"} {
			opts = append(opts, models.Option{Key: key, Text: "Option " + key})
		}
		opts = append(opts, models.Option{Key: "A", Text: "One too many"})
		errs := v.ValidateSubmission(
			"Question text", "MRCP", "Cardiology",
			opts, []string{"A"}, models.AnswerSingle)
		assert.NotEmpty(t, errs)
	})

	t.Run("single answer type with multiple correct keys", func(t *testing.T) {
		errs := v.ValidateSubmission(
			"Question text", "MRCP", "Cardiology",
			standardOptions(), []string{"A", "B"}, models.AnswerSingle)
		require.NotEmpty(t, errs)
		assert.Equal(t, "answer_type", errs[0].Field)
	})

	t.Run("multiple answer type accepts several keys", func(t *testing.T) {
		errs := v.ValidateSubmission(
			"Question text", "MRCP", "Cardiology",
			standardOptions(), []string{"A", "B"}, models.AnswerMultiple)
		assert.Empty(t, errs)
	})

	t.Run("empty option text", func(t *testing.T) {
		opts := []models.Option{{Key: "A", Text: "  "}}
		errs := v.ValidateSubmission(
			"Question text", "MRCP", "Cardiology",
			opts, []string{"A"}, models.AnswerSingle)
		assert.NotEmpty(t, errs)
	})
}

func TestQuestionValidator_ResolveAnswerType(t *testing.T) {
	v := NewQuestionValidator()

	tests := []struct {
		name           string
		requested      models.AnswerType
		correctAnswers []string
		want           models.AnswerType
	}{
		{"explicit single wins", models.AnswerSingle, []string{"A", "B"}, models.AnswerSingle},
		{"explicit multiple wins", models.AnswerMultiple, []string{"A"}, models.AnswerMultiple},
		{"derived single", "", []string{"A"}, models.AnswerSingle},
		{"derived multiple", "", []string{"A", "B"}, models.AnswerMultiple},
		{"no answers defaults to single", "", nil, models.AnswerSingle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.ResolveAnswerType(tt.requested, tt.correctAnswers))
		})
	}
}

func TestValidator_CustomTags(t *testing.T) {
	v := New()

	type statusPayload struct {
		Status string `json:"status" validate:"question_status"`
	}

	t.Run("valid status", func(t *testing.T) {
		assert.NoError(t, v.Validate(&statusPayload{Status: "approved"}))
	})

	t.Run("unknown status", func(t *testing.T) {
		err := v.Validate(&statusPayload{Status: "archived"})
		require.Error(t, err)
	})

	type rolePayload struct {
		Role string `json:"role" validate:"user_role"`
	}

	t.Run("valid role", func(t *testing.T) {
		assert.NoError(t, v.Validate(&rolePayload{Role: "moderator"}))
	})

	t.Run("unknown role", func(t *testing.T) {
		assert.Error(t, v.Validate(&rolePayload{Role: "superuser"}))
	})
}
