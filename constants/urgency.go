package constants

// UrgencyClass buckets a record by signed time remaining until demolition.
type UrgencyClass string

const (
	Overdue  UrgencyClass = "OVERDUE"  // demolition date has passed
	Urgent   UrgencyClass = "URGENT"   // due within the urgent window
	Upcoming UrgencyClass = "UPCOMING" // everything further out
)

// UrgentWindowHours is the width of the Urgent bucket.
const UrgentWindowHours = 24
