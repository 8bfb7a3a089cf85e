package model

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank возвращает вес приоритета для сортировки: high > medium > low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
}

// Draft - задача, которую еще не сохранили: без ID и CreatedAt
type Draft struct {
	Text     string   `json:"text"`
	Priority Priority `json:"priority"`
}

// Collection хранится в порядке вставки (новые первыми).
// Порядок отображения всегда пересчитывается в пакете view.
type Collection []Task

// Index возвращает позицию задачи с данным id или -1.
func (c Collection) Index(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	copy(out, c)
	return out
}
