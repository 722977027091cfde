package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/recallhub/recall-service/internal/models"
)

// Validator combines struct-tag validation with the structural question
// validator.
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance.
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only.
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate performs struct-tag validation and converts failures to the
// shared ValidationErrors type.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if converted := ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

// Question returns the structural question validator.
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// GetQuestionValidator returns the question validator (compatibility method).
func (v *Validator) GetQuestionValidator() *QuestionValidator {
	return v.questionValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_status", validateQuestionStatus)
	validate.RegisterValidation("answer_type", validateAnswerType)
	validate.RegisterValidation("user_role", validateUserRole)
	validate.RegisterValidation("option_key", validateOptionKey)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionStatus(fl validator.FieldLevel) bool {
	switch models.QuestionStatus(fl.Field().String()) {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
		return true
	}
	return false
}

func validateAnswerType(fl validator.FieldLevel) bool {
	switch models.AnswerType(fl.Field().String()) {
	case models.AnswerSingle, models.AnswerMultiple:
		return true
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case models.RoleContributor, models.RoleModerator, models.RoleAdmin:
		return true
	}
	return false
}

func validateOptionKey(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, key := range models.OptionKeys {
		if value == key {
			return true
		}
	}
	return false
}
