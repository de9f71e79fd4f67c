package handlers

// AppHandlers bundles every HTTP handler for route registration.
type AppHandlers struct {
	NeedHandler        *NeedHandler
	RequestHandler     *RequestHandler
	ListHandler        *ListHandler
	MusicianHandler    *MusicianHandler
	MaintenanceHandler *MaintenanceHandler
}
