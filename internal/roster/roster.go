// Package roster holds the fixed employee list the daily reminder covers.
// The list is set at startup and never changes at runtime.
package roster

// Employee is one member of the attendance roster.
type Employee struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Roster is an ordered, read-only employee list.
type Roster []Employee

// Default returns the built-in roster.
func Default() Roster {
	return Roster{
		{ID: 1, Name: "Rahul Sharma"},
		{ID: 2, Name: "Priya Patel"},
		{ID: 3, Name: "Amit Kumar"},
		{ID: 4, Name: "Sneha Reddy"},
		{ID: 5, Name: "Vikram Singh"},
	}
}

// Names returns the employee names in roster order.
func (r Roster) Names() []string {
	names := make([]string, len(r))
	for i, e := range r {
		names[i] = e.Name
	}
	return names
}
