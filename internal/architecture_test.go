package internal

import (
	"github.com/kcmvp/archunit"
	"testing"
)

func TestArchitecture(t *testing.T) {
	domain := archunit.Packages("domain", []string{".../internal/domain/..."})
	ports := archunit.Packages("ports", []string{".../internal/ports"})
	adapters := archunit.Packages("adapters", []string{".../internal/adapters/..."})
	testutil := archunit.Packages("testutil", []string{".../internal/testutil/..."})

	// Rule 1: Domain should not depend on adapters
	if err := domain.ShouldNotReferLayers(adapters); err != nil {
		t.Errorf("Architecture violation: Domain depends on Adapters: %v", err)
	}

	// Rule 2: Ports describe the boundary and must not know its implementations
	if err := ports.ShouldNotReferLayers(adapters); err != nil {
		t.Errorf("Architecture violation: Ports depend on Adapters: %v", err)
	}

	// Rule 3: Domain is tested against mocks, never the fake bridge
	if err := domain.ShouldNotReferLayers(testutil); err != nil {
		t.Errorf("Architecture violation: Domain depends on testutil: %v", err)
	}
}

func TestSOLID(t *testing.T) {
	// Light state conversion lives in its own package
	translator := archunit.Packages("translator", []string{".../internal/domain/translator"})
	if len(translator.Packages()) == 0 {
		t.Error("No translator package found in domain")
	}

	service := archunit.Packages("service", []string{".../internal/domain/service"})
	if len(service.Packages()) == 0 {
		t.Error("No service package found in domain")
	}
}
