package domain

import "fmt"

// Task is a single checklist item tagged with a day of the month.
// ID, Text and Day are fixed at creation; only Completed changes.
type Task struct {
	ID        string
	Text      string
	Day       int
	Completed bool
}

// NewTask creates an incomplete task.
func NewTask(id, text string, day int) Task {
	return Task{
		ID:   id,
		Text: text,
		Day:  day,
	}
}

// Toggled returns a copy of the task with Completed flipped.
func (t Task) Toggled() Task {
	t.Completed = !t.Completed
	return t
}

// String returns the task text with its day for display purposes.
func (t Task) String() string {
	return fmt.Sprintf("%s (day %d)", t.Text, t.Day)
}

// CloneTasks returns a copy of tasks that shares no backing array with it.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

// IndexOf returns the position of the task with the given id, or -1.
func IndexOf(tasks []Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
