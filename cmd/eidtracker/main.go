package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hubblenetwork/eidtracker/internal/ble"
	"github.com/hubblenetwork/eidtracker/internal/clock"
	"github.com/hubblenetwork/eidtracker/internal/coordinator"
	"github.com/hubblenetwork/eidtracker/internal/logging"
	"github.com/hubblenetwork/eidtracker/internal/store"
	"github.com/hubblenetwork/eidtracker/internal/tui"
	"github.com/hubblenetwork/eidtracker/internal/tui/screens"
)

func main() {
	mock := flag.Bool("mock-scanner", false, "use an in-process mock BLE scanner instead of a real adapter")
	memStore := flag.Bool("memory-store", false, "keep beacon state in memory instead of the OS keychain")
	production := flag.Bool("production-log", false, "use a production (JSON) log encoder instead of a development one")
	flag.Parse()

	log, err := logging.New("eidtracker", *production)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	var scanner screens.Scanner
	if *mock {
		scanner = ble.NewMockScanner()
	} else {
		realScanner, err := ble.NewScanner()
		if err != nil {
			log.Info("bluetooth adapter unavailable, falling back to mock scanner", "err", err)
			scanner = ble.NewMockScanner()
		} else {
			scanner = realScanner
		}
	}

	var st store.Store
	if *memStore {
		st = store.NewMemoryStore()
	} else {
		st = store.NewKeychainStore()
	}

	coord := coordinator.New(scanner, st, clock.System{}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := coord.Run(ctx); err != nil {
			log.Info("coordinator run loop exited", "err", err)
		}
	}()
	defer coord.Stop()

	p := tea.NewProgram(tui.NewApp(coord, scanner), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
