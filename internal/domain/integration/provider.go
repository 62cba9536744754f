package integration

import "fmt"

// Provider identifies a class of external system.
type Provider string

const (
	ProviderHRSystem      Provider = "hr_system"
	ProviderPayrollSystem Provider = "payroll_system"
)

var validProviders = map[Provider]bool{
	ProviderHRSystem:      true,
	ProviderPayrollSystem: true,
}

func (p Provider) String() string { return string(p) }

func (p Provider) IsValid() bool {
	return validProviders[p]
}

// ParseProvider validates a provider identifier coming from the outside.
func ParseProvider(s string) (Provider, error) {
	p := Provider(s)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidProvider, s)
	}
	return p, nil
}

// Status is the connection state of an integration.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnected    Status = "connected"
	StatusError        Status = "error"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusDisconnected, StatusConnected, StatusError:
		return true
	}
	return false
}
