package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used by the handlers and route wiring.
type ServiceContainer struct {
	Payment   PaymentSvcFacade
	Student   StudentSvcFacade
	Reporting ReportingSvc
	User      UserSvcFacade
	Auth      AuthSvcFacade
}
