package models

// Todo represents a single task in the list
type Todo struct {
	Text            string
	Description     string
	Completed       bool
	SubDescriptions []string // ordered, entries may be empty
}

// Clone returns a copy of the todo that shares no memory with t
func (t Todo) Clone() Todo {
	c := t
	if t.SubDescriptions != nil {
		c.SubDescriptions = make([]string, len(t.SubDescriptions))
		copy(c.SubDescriptions, t.SubDescriptions)
	}
	return c
}
