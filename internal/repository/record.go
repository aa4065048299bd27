package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"checklist/internal/domain"
)

// taskRecord is the persisted shape of a task. Field names and the string
// form of day match what earlier versions of the app wrote.
type taskRecord struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	Day       dayWire `json:"day"`
	Completed bool    `json:"completed"`
}

// dayWire accepts a day written as a JSON string ("15") or integer (15) and
// always writes the string form.
type dayWire int

func (d dayWire) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.Itoa(int(d)))
}

func (d *dayWire) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("day %q is not an integer", s)
		}
		*d = dayWire(n)
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("day %s is not an integer", data)
	}
	*d = dayWire(n)
	return nil
}

// TaskMapper handles conversion between domain tasks and stored records.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToRecord converts a domain Task to its stored record.
func (m *TaskMapper) ToRecord(task domain.Task) taskRecord {
	return taskRecord{
		ID:        task.ID,
		Text:      task.Text,
		Day:       dayWire(task.Day),
		Completed: task.Completed,
	}
}

// FromRecord converts a stored record to a domain Task.
func (m *TaskMapper) FromRecord(record taskRecord) domain.Task {
	return domain.Task{
		ID:        record.ID,
		Text:      record.Text,
		Day:       int(record.Day),
		Completed: record.Completed,
	}
}

// ToRecords converts a slice of domain Tasks to records, preserving order.
func (m *TaskMapper) ToRecords(tasks []domain.Task) []taskRecord {
	records := make([]taskRecord, len(tasks))
	for i, task := range tasks {
		records[i] = m.ToRecord(task)
	}
	return records
}

// FromRecords converts a slice of records to domain Tasks, preserving order.
func (m *TaskMapper) FromRecords(records []taskRecord) []domain.Task {
	tasks := make([]domain.Task, len(records))
	for i, record := range records {
		tasks[i] = m.FromRecord(record)
	}
	return tasks
}
