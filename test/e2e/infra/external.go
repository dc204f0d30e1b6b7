package infra

// ExternalInfraManager implements InfraManager for a service deployed outside
// the tests. Start and stop are no-ops.
type ExternalInfraManager struct {
	url string
}

func NewExternalInfraManager(url string) *ExternalInfraManager {
	return &ExternalInfraManager{url: url}
}

func (e *ExternalInfraManager) StartService() (string, error) { return e.url, nil }
func (e *ExternalInfraManager) StopService() error            { return nil }
func (e *ExternalInfraManager) SinglePermit() bool            { return false }
