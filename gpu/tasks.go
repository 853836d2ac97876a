package gpu

import "fmt"

// Task is one deferred graphics operation.
type Task struct {
	Name string
	Run  func(d Device) error
}

// TaskList is an ordered batch of tasks recorded on the worker and executed
// on the graphics goroutine.
type TaskList struct {
	tasks []Task
}

// Add appends a task.
func (l *TaskList) Add(name string, fn func(d Device) error) {
	l.tasks = append(l.tasks, Task{Name: name, Run: fn})
}

// Pass appends a pass.
func (l *TaskList) Pass(p Pass) {
	l.Add(fmt.Sprintf("%T", p), func(d Device) error { return d.Run(p) })
}

// Create appends texture creation.
func (l *TaskList) Create(t Texture, w, h int) {
	l.Add("create", func(d Device) error { return d.Create(t, w, h) })
}

// Upload appends a texture upload. data is owned by the list afterwards.
func (l *TaskList) Upload(t Texture, data []float32) {
	l.Add("upload", func(d Device) error { return d.Upload(t, data) })
}

// Len returns the number of tasks.
func (l *TaskList) Len() int { return len(l.tasks) }

// Execute runs the tasks in order and stops at the first error.
func (l *TaskList) Execute(d Device) error {
	for i, t := range l.tasks {
		if err := t.Run(d); err != nil {
			return fmt.Errorf("task %d (%s): %w", i, t.Name, err)
		}
	}
	return nil
}
