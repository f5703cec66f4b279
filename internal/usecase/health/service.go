package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the catalog cannot be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names.
const (
	ComponentCatalog = "catalog"
	ComponentCache   = "cache"
	ComponentLLM     = "llm"
)

// Report aggregates health check results.
type Report struct {
	Status       Status
	DataLoaded   bool
	TotalRecords int
	Checks       map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	catalog CatalogProvider
	cache   StorePinger
	llm     ProviderChecker
}

// New creates a Service. cache and llm can be nil.
func New(catalog CatalogProvider, cache StorePinger, llm ProviderChecker) *Service {
	return &Service{catalog: catalog, cache: cache, llm: llm}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Status: Healthy, Checks: make(map[string]CheckResult)}

	if tbl, err := s.catalog.Current(ctx); err != nil {
		r.Checks[ComponentCatalog] = CheckError
	} else {
		r.Checks[ComponentCatalog] = CheckOK
		r.DataLoaded = true
		r.TotalRecords = tbl.Len()
	}

	if s.cache != nil {
		r.Checks[ComponentCache] = result(s.cache.Ping(ctx))
	}
	if s.llm != nil {
		r.Checks[ComponentLLM] = result(s.llm.HealthCheck(ctx))
	}

	for _, v := range r.Checks {
		if v == CheckError {
			r.Status = Degraded
			break
		}
	}
	if !r.DataLoaded {
		r.Status = Unhealthy
	}
	return r
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
