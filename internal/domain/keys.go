package domain

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
	KeyProfileID CtxKey = "ProfileID"
	KeyRequestID CtxKey = "RequestID"
)
