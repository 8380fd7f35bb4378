package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/doeshing/readerstate/internal/app"
	"github.com/doeshing/readerstate/internal/domain"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the state directory and stored files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctorDiagnostics(cmd.OutOrStdout(), container)
		},
	}
}

// runDoctorDiagnostics runs store diagnostics
func runDoctorDiagnostics(out io.Writer, container *app.Container) error {
	if container.DoctorService == nil {
		return errors.New(ErrDoctorServiceUnavailable)
	}

	report := container.DoctorService.Run()
	displayDoctorReport(out, report)

	if !report.Healthy() {
		return errors.New("diagnostics completed with errors")
	}
	return nil
}

var statusColors = map[domain.HealthStatus]*color.Color{
	domain.HealthOK:    color.New(color.FgGreen, color.Bold),
	domain.HealthWarn:  color.New(color.FgYellow, color.Bold),
	domain.HealthError: color.New(color.FgRed, color.Bold),
}

// displayDoctorReport displays the health check report. Colors are dropped
// when stdout is not a terminal.
func displayDoctorReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		tag := "[" + strings.ToUpper(string(check.Status)) + "]"
		if c, ok := statusColors[check.Status]; ok {
			tag = c.Sprint(tag)
		}
		fmt.Fprintf(out, "%s %s - %s\n", tag, check.Name, check.Details)
	}
}
