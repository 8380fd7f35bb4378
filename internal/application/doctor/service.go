package doctor

import (
	"fmt"
	"os"

	appconfig "github.com/doeshing/readerstate/internal/application/config"
	"github.com/doeshing/readerstate/internal/domain"
	"github.com/doeshing/readerstate/internal/ports"
)

// Service runs diagnostics over the state directory and its stores.
type Service struct {
	Mode    string
	DataDir func() (string, error)
	// Config reads the settings without writing anything.
	Config  func() domain.Config
	Stores  []ports.StoreInspector
	OpenLog ports.OpenLog
	// OpenLogErr explains why OpenLog is nil.
	OpenLogErr error
}

// Run executes checks and returns a report. The data directory is left as it
// was found; the temporary file of the writability check is removed.
func (s *Service) Run() domain.HealthReport {
	var checks []domain.HealthCheck

	checks = append(checks, s.dirCheck())
	for _, st := range s.Stores {
		checks = append(checks, storeCheck(st.Status()))
	}
	if s.Config != nil {
		checks = append(checks, consistencyCheck(s.Config))
	}
	checks = append(checks, s.openLogCheck())

	return domain.HealthReport{Checks: checks}
}

func (s *Service) dirCheck() domain.HealthCheck {
	const name = "Data directory"
	if s.DataDir == nil {
		return warn(name, "no resolver configured")
	}
	dir, err := s.DataDir()
	if err != nil {
		return fail(name, fmt.Sprintf("%s mode: %v", s.Mode, err))
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return fail(name, fmt.Sprintf("%s is not writable: %v", dir, err))
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())
	return ok(name, fmt.Sprintf("%s (%s mode)", dir, s.Mode))
}

func storeCheck(st domain.StoreStatus) domain.HealthCheck {
	name := st.Name + ".json"
	switch st.Source {
	case "disk":
		return ok(name, st.Path)
	case "missing":
		return warn(name, fmt.Sprintf("%s not created yet; defaults are used until first save", st.Path))
	default:
		kind := domain.KindOf(st.Reason)
		return fail(name, fmt.Sprintf("%s: defaults in use (%s): %v", st.Path, kind, st.Reason))
	}
}

func consistencyCheck(current func() domain.Config) domain.HealthCheck {
	const name = "Config consistency"
	cfg := current()
	if err := appconfig.Validate(cfg); err != nil {
		return warn(name, err.Error())
	}
	return ok(name, fmt.Sprintf("%d model(s) configured", len(cfg.AIModels)))
}

func (s *Service) openLogCheck() domain.HealthCheck {
	const name = "Open log"
	if s.OpenLog == nil {
		if s.OpenLogErr != nil {
			return warn(name, fmt.Sprintf("unavailable: %v", s.OpenLogErr))
		}
		return warn(name, "not configured")
	}
	n, err := s.OpenLog.Count()
	if err != nil {
		return fail(name, err.Error())
	}
	return ok(name, fmt.Sprintf("%d open(s) recorded", n))
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
