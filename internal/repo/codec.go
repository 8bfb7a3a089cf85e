package repo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BuzzLyutic/todo-app/internal/model"
)

var (
	ErrStorage = errors.New("storage unavailable")
	ErrDecode  = errors.New("malformed collection")
)

// record - формат одной задачи в хранилище. Указатели нужны, чтобы
// отличить отсутствующее поле от нулевого значения.
type record struct {
	ID        *string `json:"id"`
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
	Priority  *string `json:"priority"`
	CreatedAt *string `json:"createdAt"`
}

// Encode сериализует коллекцию в JSON-массив; createdAt пишется в RFC 3339 UTC.
func Encode(c model.Collection) ([]byte, error) {
	out := make([]record, 0, len(c))
	for i := range c {
		t := c[i]
		priority := string(t.Priority)
		createdAt := t.CreatedAt.UTC().Format(time.RFC3339Nano)
		out = append(out, record{
			ID:        &t.ID,
			Text:      &t.Text,
			Completed: &t.Completed,
			Priority:  &priority,
			CreatedAt: &createdAt,
		})
	}
	return json.Marshal(out)
}

// Decode разбирает сохраненную коллекцию. Любое отклонение от схемы
// возвращает ошибку, оборачивающую ErrDecode.
func Decode(data []byte) (model.Collection, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var records []record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: root is not an array", ErrDecode)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after collection", ErrDecode)
	}

	c := make(model.Collection, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		t, err := r.task()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrDecode, i, err)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("%w: record %d: duplicate id %q", ErrDecode, i, t.ID)
		}
		seen[t.ID] = struct{}{}
		c = append(c, t)
	}
	return c, nil
}

func (r record) task() (model.Task, error) {
	switch {
	case r.ID == nil:
		return model.Task{}, errors.New("missing id")
	case r.Text == nil:
		return model.Task{}, errors.New("missing text")
	case r.Completed == nil:
		return model.Task{}, errors.New("missing completed")
	case r.Priority == nil:
		return model.Task{}, errors.New("missing priority")
	case r.CreatedAt == nil:
		return model.Task{}, errors.New("missing createdAt")
	}

	if *r.ID == "" {
		return model.Task{}, errors.New("empty id")
	}
	if strings.TrimSpace(*r.Text) == "" {
		return model.Task{}, errors.New("empty text")
	}
	priority := model.Priority(*r.Priority)
	if !priority.Valid() {
		return model.Task{}, fmt.Errorf("unknown priority %q", *r.Priority)
	}
	createdAt, err := parseTimestamp(*r.CreatedAt)
	if err != nil {
		return model.Task{}, err
	}

	return model.Task{
		ID:        *r.ID,
		Text:      *r.Text,
		Completed: *r.Completed,
		Priority:  priority,
		CreatedAt: createdAt,
	}, nil
}

// parseTimestamp принимает ISO-8601 или epoch-миллисекунды строкой.
func parseTimestamp(s string) (time.Time, error) {
	if s != "" && strings.Trim(s, "0123456789") == "" {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("bad createdAt %q: %v", s, err)
		}
		return time.UnixMilli(ms).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad createdAt %q: %v", s, err)
	}
	return t, nil
}
