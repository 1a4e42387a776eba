package clock

import "time"

// Clock abstracts time.Now so schedulers and reports can be tested
// against a fixed instant.
type Clock interface {
	Now() time.Time
}
