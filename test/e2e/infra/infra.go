package infra

// InfraManager abstracts the lifecycle of the jobqueue service under test.
// In-process: the whole application runs inside the test binary.
// External: the service is managed outside the tests and only its URL is known.
type InfraManager interface {
	// StartService returns the base URL of a running service.
	StartService() (string, error)
	StopService() error
	// SinglePermit reports whether the service runs with one permit and
	// without inline runs on the dispatcher, which some scenarios rely on.
	SinglePermit() bool
}
