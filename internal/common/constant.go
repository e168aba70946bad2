package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// protected requests.
const AuthorizationHeaderName = "Authorization"

// BearerSchemePrefix is the expected scheme prefix of the Authorization
// header value.
const BearerSchemePrefix = "Bearer"
