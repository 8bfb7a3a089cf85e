package service

import (
	"strings"
	"unicode/utf8"

	"github.com/BuzzLyutic/todo-app/internal/model"
)

const MaxTextLength = 200

// normalize обрезает пробелы, подставляет приоритет по умолчанию и проверяет черновик.
func normalize(d model.Draft) (model.Draft, error) {
	d.Text = strings.TrimSpace(d.Text)
	if d.Text == "" {
		return d, &ValidationError{Field: "text", Rule: RuleTextRequired}
	}
	if utf8.RuneCountInString(d.Text) > MaxTextLength {
		return d, &ValidationError{Field: "text", Rule: RuleTextTooLong}
	}

	if d.Priority == "" {
		d.Priority = model.PriorityMedium
	}
	if !d.Priority.Valid() {
		return d, &ValidationError{Field: "priority", Rule: RulePriorityInvalid}
	}
	return d, nil
}
