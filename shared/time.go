package shared

import "time"

//ElapsedInMs returns time elapsed since started in milliseconds
func ElapsedInMs(started time.Time) int {
	return int(time.Now().Sub(started).Milliseconds())
}
