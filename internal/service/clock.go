package service

import "time"

// timeNow supplies the clock for expiry computations; tests pin it to a
// fixed instant.
var timeNow = time.Now
