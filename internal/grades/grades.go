// Package grades lists the CBC grade levels the helper supports.
package grades

const (
	Min = 1
	Max = 9
)

// Grade is a selectable grade level.
type Grade struct {
	Number      int
	Description string
}

var all = []Grade{
	{Number: 1, Description: "Foundation skills, basic reading and counting"},
	{Number: 2, Description: "Building literacy and numeracy skills"},
	{Number: 3, Description: "Developing problem-solving abilities"},
	{Number: 4, Description: "Advanced reading and basic mathematics"},
	{Number: 5, Description: "Critical thinking and analysis"},
	{Number: 6, Description: "Preparation for intermediate level"},
	{Number: 7, Description: "Advanced topics and concepts"},
	{Number: 8, Description: "Pre-secondary preparation"},
	{Number: 9, Description: "Complex problem solving and analysis"},
}

// All returns every grade in ascending order.
func All() []Grade {
	out := make([]Grade, len(all))
	copy(out, all)
	return out
}

// Valid reports whether n is a supported grade.
func Valid(n int) bool {
	return n >= Min && n <= Max
}

// Lookup returns the grade with the given number.
func Lookup(n int) (Grade, bool) {
	if !Valid(n) {
		return Grade{}, false
	}
	return all[n-Min], true
}
