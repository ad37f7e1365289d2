package auth

// Cookie names for the transport-level token copies. The same tokens are
// also returned in response bodies; the cookies exist so browser clients
// never handle raw tokens in script.
const (
	AccessCookieName  = "cliptide_access"
	RefreshCookieName = "cliptide_refresh"
)
