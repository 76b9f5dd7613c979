package common

// AuthorizationHeader is the HTTP header used to carry the session token on
// outbound requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix precedes the token value in the Authorization header.
const BearerPrefix = "Bearer "
