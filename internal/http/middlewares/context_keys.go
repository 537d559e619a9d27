package middlewares

const (
	CtxPrincipalID = "auth.principalID"
	CtxRole        = "auth.role"
	CtxRequestID   = "request_id"
)
