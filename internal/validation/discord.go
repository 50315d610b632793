// Package validation checks user-supplied identifiers and free text.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var snowflakeRegex = regexp.MustCompile(`^[0-9]{1,20}$`)

const (
	MaxDisplayNameLength = 100
	MaxReasonLength      = 1000
	MaxAnswerLength      = 4000
	MaxAnswerCount       = 50
)

// ValidateExternalID accepts Discord snowflake ids.
func ValidateExternalID(id string) error {
	if !snowflakeRegex.MatchString(id) {
		return fmt.Errorf("discord ID must be a numeric Discord snowflake")
	}
	return nil
}

// ValidateDisplayName requires a non-blank name of bounded length.
func ValidateDisplayName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("username is required")
	}
	if utf8.RuneCountInString(trimmed) > MaxDisplayNameLength {
		return fmt.Errorf("username must be at most %d characters", MaxDisplayNameLength)
	}
	return nil
}

// ValidateReason bounds optional free-text reasons.
func ValidateReason(reason *string) error {
	if reason != nil && utf8.RuneCountInString(*reason) > MaxReasonLength {
		return fmt.Errorf("reason must be at most %d characters", MaxReasonLength)
	}
	return nil
}

// ValidateAnswerSizes bounds the answer map independently of any template.
func ValidateAnswerSizes(answers map[string]string) error {
	if len(answers) > MaxAnswerCount {
		return fmt.Errorf("too many answers (max %d)", MaxAnswerCount)
	}
	for key, value := range answers {
		if utf8.RuneCountInString(value) > MaxAnswerLength {
			return fmt.Errorf("answer %q must be at most %d characters", key, MaxAnswerLength)
		}
	}
	return nil
}
