/*
Package e2e holds the end-to-end tests of the jobqueue HTTP API.

# Package Structure

	test/e2e/
	├── e2e_suite_test.go  Flags, InfraManager setup, Ginkgo runner
	├── e2e_test.go        Ginkgo specs (admission, dedup, cancel, pause, history)
	├── doc.go             This file
	├── infra/
	│   ├── infra.go       InfraManager interface
	│   ├── inprocess.go   InProcessInfraManager (application inside the test binary)
	│   └── external.go    ExternalInfraManager (service deployed elsewhere)
	└── service/
	    └── service.go     JobQueueSvc, HTTP client for /api/v1

# InfraManager

	type InfraManager interface {
	    StartService() (string, error)
	    StopService() error
	    SinglePermit() bool
	}

The in-process manager (default) runs the service with one permit and no
inline runs on the dispatcher, so a long sleep job keeps later jobs queued.
Scenarios that depend on that are skipped against an external service.

Selected via the -infra-mode flag ("inprocess" or "external").

# Running

	go test ./test/e2e/...
	go test ./test/e2e/... -args -infra-mode=external -api-url=http://localhost:8000
*/
package e2e
