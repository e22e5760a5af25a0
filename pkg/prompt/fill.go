package prompt

import (
	"context"
	"fmt"

	"github.com/goliatone/go-docgen/pkg/model"
	"github.com/goliatone/go-docgen/pkg/session"
)

// Fill prompts for every field of the session's template in declared order,
// then validates. Fields that fail validation are re-prompted with their
// message until the values pass or the driver reports an error.
func Fill(ctx context.Context, driver PromptDriver, sess *session.Session) error {
	if driver == nil {
		return fmt.Errorf("prompt: driver is required")
	}
	if sess == nil {
		return fmt.Errorf("prompt: session is required")
	}

	for _, field := range sess.Template().Fields {
		if err := askField(ctx, driver, sess, field, ""); err != nil {
			return err
		}
	}

	for {
		result := sess.Validate()
		if result.Valid {
			return nil
		}
		for _, field := range sess.Template().Fields {
			message, failed := result.Errors[field.ID]
			if !failed {
				continue
			}
			if err := askField(ctx, driver, sess, field, message); err != nil {
				return err
			}
		}
	}
}

func askField(ctx context.Context, driver PromptDriver, sess *session.Session, field model.Field, problem string) error {
	message := field.Label
	if message == "" {
		message = field.ID
	}
	if problem != "" {
		message = fmt.Sprintf("%s (%s)", message, problem)
	}

	var (
		value any
		err   error
	)
	switch field.Type {
	case model.FieldTypeTextarea:
		value, err = driver.TextArea(ctx, InputConfig{Message: message, Help: field.Description, Default: currentString(sess, field.ID)})
	case model.FieldTypeCheckbox:
		value, err = driver.Confirm(ctx, ConfirmConfig{Message: message, Help: field.Description})
	case model.FieldTypeSelect, model.FieldTypeRadio:
		labels := make([]string, 0, len(field.Options))
		for _, opt := range field.Options {
			labels = append(labels, opt.Label)
		}
		var idx int
		idx, err = driver.Select(ctx, SelectConfig{Message: message, Options: labels, Help: field.Description})
		if err == nil {
			value = field.Options[idx].Value
		}
	default:
		value, err = driver.Input(ctx, InputConfig{Message: message, Help: field.Description, Default: currentString(sess, field.ID)})
	}
	if err != nil {
		return err
	}
	return sess.Set(field.ID, value)
}

func currentString(sess *session.Session, fieldID string) string {
	value, ok := sess.Value(fieldID)
	if !ok {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
