//go:build windows

// Windows service support via github.com/kardianos/service, so the
// dashboard backend can run as a background service with proper
// Start/Stop handling.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kardianos/service"
)

// Program implements service.Interface for Windows Service integration.
type Program struct {
	ctx    context.Context
	cancel context.CancelFunc
	exit   chan struct{}
}

// Start is called when the service is started.
func (p *Program) Start(s service.Service) error {
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.exit = make(chan struct{})
	go p.run()
	return nil
}

// Stop signals the application to shut down gracefully.
func (p *Program) Stop(s service.Service) error {
	p.cancel()
	select {
	case <-p.exit:
	case <-time.After(30 * time.Second):
		return fmt.Errorf("timeout waiting for service to stop")
	}
	return nil
}

func (p *Program) run() {
	defer close(p.exit)
	runServer(p.ctx)
}

// ServiceConfig returns the service configuration for Windows.
func ServiceConfig() *service.Config {
	return &service.Config{
		Name:        "AnalyticsDashboard",
		DisplayName: "Analytics Dashboard Service",
		Description: "Serves the analytics dashboard backend with widget state, actions, and live updates",
		Option: service.KeyValue{
			"StartType": "automatic",
		},
	}
}

// RunAsService runs the application as a Windows service.
// Returns true if running as a service, false if running interactively.
func RunAsService() (bool, error) {
	prg := &Program{}
	s, err := service.New(prg, ServiceConfig())
	if err != nil {
		return false, fmt.Errorf("failed to create service: %w", err)
	}

	if service.Interactive() {
		return false, nil
	}

	if err := s.Run(); err != nil {
		return true, fmt.Errorf("service run failed: %w", err)
	}
	return true, nil
}

func withService(action string, fn func(service.Service) error) error {
	prg := &Program{}
	s, err := service.New(prg, ServiceConfig())
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	if err := fn(s); err != nil {
		return fmt.Errorf("failed to %s service: %w", action, err)
	}
	fmt.Printf("Service %s completed successfully\n", action)
	return nil
}

// PrintServiceUsage prints the help for service commands.
func PrintServiceUsage() {
	fmt.Println("Analytics Dashboard Service Management")
	fmt.Println()
	fmt.Println("Usage: dashboard.exe <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  install    Install the application as a Windows service")
	fmt.Println("  uninstall  Remove the Windows service (alias: remove)")
	fmt.Println("  start      Start the Windows service")
	fmt.Println("  stop       Stop the Windows service")
	fmt.Println("  restart    Restart the Windows service")
	fmt.Println("  status     Show the current service status")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Run without arguments to start the application in foreground mode.")
}

// HandleServiceCommand handles service-related command-line arguments.
// Returns true if a service command was handled, false otherwise.
func HandleServiceCommand(args []string) bool {
	if len(args) < 2 {
		return false
	}

	var err error
	switch args[1] {
	case "install":
		err = withService("install", func(s service.Service) error { return s.Install() })
	case "uninstall", "remove":
		err = withService("uninstall", func(s service.Service) error { return s.Uninstall() })
	case "start":
		err = withService("start", func(s service.Service) error { return s.Start() })
	case "stop":
		err = withService("stop", func(s service.Service) error { return s.Stop() })
	case "restart":
		err = withService("restart", func(s service.Service) error { return s.Restart() })
	case "status":
		prg := &Program{}
		s, newErr := service.New(prg, ServiceConfig())
		if newErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", newErr)
			os.Exit(1)
		}
		status, statusErr := s.Status()
		if statusErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", statusErr)
			os.Exit(1)
		}
		switch status {
		case service.StatusRunning:
			fmt.Println("Service is running")
		case service.StatusStopped:
			fmt.Println("Service is stopped")
		default:
			fmt.Println("Service status unknown")
		}
		return true
	case "help", "-h", "--help", "-help":
		PrintServiceUsage()
		return true
	default:
		return false
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return true
}
