package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/echotask/echotask/internal/models"
	"github.com/echotask/echotask/internal/parser"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums and parser value formats
	// These should never fail in normal operation, but log if they do
	if err := Validate.RegisterValidation("category", validateCategory); err != nil {
		panic(fmt.Sprintf("failed to register category validator: %v", err))
	}
	if err := Validate.RegisterValidation("iso_date", validateISODate); err != nil {
		panic(fmt.Sprintf("failed to register iso_date validator: %v", err))
	}
	if err := Validate.RegisterValidation("clock_time", validateClockTime); err != nil {
		panic(fmt.Sprintf("failed to register clock_time validator: %v", err))
	}
	if err := Validate.RegisterValidation("task_source", validateTaskSource); err != nil {
		panic(fmt.Sprintf("failed to register task_source validator: %v", err))
	}
}

// validateCategory validates that a string is one of the known task categories
func validateCategory(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, c := range parser.Categories() {
		if value == c {
			return true
		}
	}
	return false
}

// validateISODate validates that a string is a YYYY-MM-DD calendar date
func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(parser.ISODateFormat, fl.Field().String())
	return err == nil
}

// validateClockTime validates that a string is a 24-hour HH:MM time
func validateClockTime(fl validator.FieldLevel) bool {
	return ValidateClockTime(fl.Field().String()) == nil
}

// validateTaskSource validates that a string is a valid TaskSource enum value
func validateTaskSource(fl validator.FieldLevel) bool {
	switch models.TaskSource(fl.Field().String()) {
	case models.TaskSourceRules, models.TaskSourceAI:
		return true
	default:
		return false
	}
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateCategory validates a category string value
func ValidateCategory(value string) error {
	for _, c := range parser.Categories() {
		if value == c {
			return nil
		}
	}
	return fmt.Errorf("invalid category: %s (must be one of %s)", value, strings.Join(parser.Categories(), ", "))
}

// ValidateISODate validates a YYYY-MM-DD date string
func ValidateISODate(value string) error {
	if _, err := time.Parse(parser.ISODateFormat, value); err != nil {
		return fmt.Errorf("invalid date: %s (must be YYYY-MM-DD)", value)
	}
	return nil
}

// ValidateClockTime validates a 24-hour HH:MM time string
func ValidateClockTime(value string) error {
	if len(value) != 5 {
		return fmt.Errorf("invalid time: %s (must be HH:MM)", value)
	}
	if _, err := time.Parse("15:04", value); err != nil {
		return fmt.Errorf("invalid time: %s (must be HH:MM, 24-hour)", value)
	}
	return nil
}

// ValidateTaskSource validates a TaskSource string value
func ValidateTaskSource(value string) error {
	switch models.TaskSource(value) {
	case models.TaskSourceRules, models.TaskSourceAI:
		return nil
	default:
		return fmt.Errorf("invalid source: %s (must be 'rules' or 'ai')", value)
	}
}
