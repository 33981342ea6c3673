package service

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"tenderly/internal/domain"
)

// validate runs v.Validate and converts field errors into a domain.ValidationError
// whose message lists the distinct field messages in field order.
func validate(v validation.Validatable) error {
	err := v.Validate()
	if err == nil {
		return nil
	}
	return toValidationError(err)
}

func toValidationError(err error) error {
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return &domain.ValidationError{Message: err.Error()}
	}

	keys := make([]string, 0, len(fieldErrs))
	for k := range fieldErrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := make(map[string]bool, len(keys))
	messages := make([]string, 0, len(keys))
	for _, k := range keys {
		msg := fieldErrs[k].Error()
		if seen[msg] {
			continue
		}
		seen[msg] = true
		messages = append(messages, msg)
	}

	return &domain.ValidationError{Message: strings.Join(messages, "; ")}
}
