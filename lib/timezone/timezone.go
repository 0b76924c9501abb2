package timezone

import "time"

// The portal's district runs on Pacific time. All day math (due dates,
// snapshot days) has to happen in its zone no matter where the process
// ends up running, otherwise Year()/Month()/Day() shift near midnight.
var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/Los_Angeles")
	if err != nil {
		panic(err)
	}
}

func Now() time.Time {
	return time.Now().In(Location)
}
