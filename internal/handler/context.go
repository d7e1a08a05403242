package handler

type ContextKey string

var (
	IsAdminCtxKey  ContextKey = "isAdmin"
	SubCtxKey      ContextKey = "sub"
	MyInfoCtx      ContextKey = "myInfo"
	NurseInfoCtx   ContextKey = "nurseInfo"
	HardRequestCtx ContextKey = "hardRequest"
	SwapRequestCtx ContextKey = "swapRequest"
	PeriodCtx      ContextKey = "period"
)
