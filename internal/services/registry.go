package services

// ServiceContainer bundles the engine's services for wiring and handlers.
type ServiceContainer struct {
	NeedService     *NeedService
	RequestService  *RequestService
	TimeoutService  *TimeoutService
	ConflictService *ConflictService
	RankingService  *RankingService
	Dispatcher      *NotifyDispatcher
}
