package archive

// Record is one watch event.
type Record struct {
	Title         string
	Day           int
	Month         int
	Year          int
	SeenInTheater bool
}

// Entry pairs a committed Record with its identifier.
type Entry struct {
	ID     string
	Record Record
}

// theaterFlag renders SeenInTheater the way the file stores it.
func theaterFlag(seen bool) string {
	if seen {
		return "y"
	}
	return "n"
}

// parseTheaterFlag reverses theaterFlag. Anything other than a yes-like
// value, including a missing key, reads as false.
func parseTheaterFlag(value string) bool {
	switch value {
	case "y", "Y", "yes", "Yes", "YES", "true", "True", "TRUE":
		return true
	default:
		return false
	}
}
