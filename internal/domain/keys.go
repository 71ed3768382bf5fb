package domain

type CtxKey string

const (
	KeyReviewerID   CtxKey = "ReviewerID"
	KeyReviewerName CtxKey = "ReviewerName"
	KeyReviewerRole CtxKey = "Role"
	KeyRequestID    CtxKey = "RequestID"
	KeyClientIP     CtxKey = "ClientIP"
)
