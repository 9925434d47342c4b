package core

// Access policy: pure functions deciding who may see or edit a service.
//
// Trust boundary: these checks gate WHO may touch a service, not WHICH fields.
// Non-admins are restricted to status-only updates by the calling layer (the
// application façade); the Workflow Engine itself accepts any field update it
// is handed. Keep that convention in mind when adding new callers.

// CanEditService reports whether the acting user may modify the service:
// admins always, everyone else only on their own assignments.
func CanEditService(email string, role Role, svc *Service) bool {
	return role == RoleAdmin || svc.AssignedUser == email
}

// CanViewService mirrors CanEditService: visibility follows editability.
func CanViewService(email string, role Role, svc *Service) bool {
	return CanEditService(email, role, svc)
}
