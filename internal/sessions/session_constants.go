package sessions

import "time"

// Note the console's route guard depends on these values, changing them will log everyone out
const (
	SessionKey        = "phil_auth"
	SessionCookieName = "phil_auth"
	SessionCookieTTL  = 7 * 24 * time.Hour
)
