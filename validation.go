package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
)

// StepStatus is the outcome of one startup validation step.
type StepStatus int

const (
	StepPassed StepStatus = iota
	StepFailed
	StepWarning
	StepSkipped
)

// ValidationStep is one startup check with its outcome.
type ValidationStep struct {
	Name    string
	Status  StepStatus
	Message string
	Error   error
}

// SuiteResult summarizes a full validation run.
type SuiteResult struct {
	Steps       []ValidationStep
	PassedSteps int
	FailedSteps int
	Warnings    int
	Duration    time.Duration
	Success     bool
}

// ValidationSuite runs the startup checks with colored progress output
// before the server boots, so misconfiguration fails fast and visibly.
type ValidationSuite struct {
	config       *Config
	output       io.Writer
	showProgress bool
}

// NewValidationSuite creates a suite for the given configuration.
func NewValidationSuite(config *Config) *ValidationSuite {
	return &ValidationSuite{
		config:       config,
		output:       os.Stdout,
		showProgress: true,
	}
}

// WithOutput sets the progress output writer.
func (s *ValidationSuite) WithOutput(w io.Writer) *ValidationSuite {
	s.output = w
	return s
}

// WithShowProgress enables or disables progress output.
func (s *ValidationSuite) WithShowProgress(show bool) *ValidationSuite {
	s.showProgress = show
	return s
}

// Validate runs all startup checks and prints a summary.
func (s *ValidationSuite) Validate() SuiteResult {
	start := time.Now()

	if s.showProgress {
		header := color.New(color.FgCyan, color.Bold)
		header.Fprintln(s.output, "Running startup validation...")
	}

	steps := []ValidationStep{
		s.checkPort(),
		s.checkSeedFile(),
		s.checkPrefsDB(),
		s.checkAuth(),
		s.checkLogFile(),
	}

	result := SuiteResult{Steps: steps, Duration: time.Since(start)}
	for _, step := range steps {
		if s.showProgress {
			s.printStep(step)
		}
		switch step.Status {
		case StepPassed:
			result.PassedSteps++
		case StepFailed:
			result.FailedSteps++
		case StepWarning:
			result.Warnings++
		}
	}
	result.Success = result.FailedSteps == 0

	if s.showProgress {
		s.printSummary(result)
	}
	return result
}

func (s *ValidationSuite) checkPort() ValidationStep {
	step := ValidationStep{Name: "server port"}
	if s.config.Port < 1 || s.config.Port > 65535 {
		step.Status = StepFailed
		step.Error = fmt.Errorf("port %d out of range", s.config.Port)
		step.Message = "DASHBOARD_PORT must be between 1 and 65535"
		return step
	}
	step.Status = StepPassed
	step.Message = fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	return step
}

func (s *ValidationSuite) checkSeedFile() ValidationStep {
	step := ValidationStep{Name: "seed file"}
	if s.config.SeedFile == "" {
		step.Status = StepSkipped
		step.Message = "using built-in dashboard seed"
		return step
	}
	if _, _, err := LoadSeed(s.config.SeedFile); err != nil {
		step.Status = StepFailed
		step.Error = err
		step.Message = "seed file is unreadable or invalid"
		return step
	}
	step.Status = StepPassed
	step.Message = s.config.SeedFile
	return step
}

func (s *ValidationSuite) checkPrefsDB() ValidationStep {
	step := ValidationStep{Name: "preferences database"}
	if !s.config.PrefsEnabled() {
		step.Status = StepWarning
		step.Message = "PREFS_DB_PATH unset, widget preferences will not persist"
		return step
	}

	dir := filepath.Dir(s.config.PrefsDBPath)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		step.Status = StepFailed
		step.Error = fmt.Errorf("database directory %s does not exist", dir)
		step.Message = "PREFS_DB_PATH points into a missing directory"
		return step
	}
	step.Status = StepPassed
	step.Message = s.config.PrefsDBPath
	return step
}

func (s *ValidationSuite) checkAuth() ValidationStep {
	step := ValidationStep{Name: "authentication"}
	if !s.config.AuthEnabled() {
		step.Status = StepWarning
		step.Message = "DASHBOARD_PASSWORD unset, the API is unauthenticated"
		return step
	}
	if len(s.config.AuthPassword) < 8 {
		step.Status = StepWarning
		step.Message = "DASHBOARD_PASSWORD is shorter than 8 characters"
		return step
	}
	step.Status = StepPassed
	step.Message = "session auth enabled"
	return step
}

func (s *ValidationSuite) checkLogFile() ValidationStep {
	step := ValidationStep{Name: "log file"}
	dir := filepath.Dir(s.config.LogFile)
	if dir != "." {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			step.Status = StepFailed
			step.Error = fmt.Errorf("log directory %s does not exist", dir)
			step.Message = "LOG_FILE points into a missing directory"
			return step
		}
	}
	step.Status = StepPassed
	step.Message = s.config.LogFile
	return step
}

func (s *ValidationSuite) printStep(step ValidationStep) {
	var clr *color.Color
	var mark string
	switch step.Status {
	case StepPassed:
		clr, mark = color.New(color.FgGreen), "✓"
	case StepFailed:
		clr, mark = color.New(color.FgRed), "✗"
	case StepWarning:
		clr, mark = color.New(color.FgYellow), "!"
	default:
		clr, mark = color.New(color.FgHiBlack), "-"
	}
	clr.Fprintf(s.output, "  %s %-24s", mark, step.Name)
	color.New(color.FgHiBlack).Fprintf(s.output, "%s\n", step.Message)
}

func (s *ValidationSuite) printSummary(result SuiteResult) {
	if result.Success {
		color.New(color.FgGreen, color.Bold).Fprint(s.output, "Validation passed ")
	} else {
		color.New(color.FgRed, color.Bold).Fprint(s.output, "Validation failed ")
	}
	color.New(color.FgHiBlack).Fprintf(s.output, "(%d passed, %d failed, %d warnings in %v)\n",
		result.PassedSteps, result.FailedSteps, result.Warnings, result.Duration.Round(time.Millisecond))
}
