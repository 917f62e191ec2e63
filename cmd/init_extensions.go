/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// init_extensions.go handles extension initialisation and command registration.
//
// Separated from root.go to isolate the initialisation logic that discovers
// the store, loads config, and wires up extensions.
//
// Design: Extensions register during init() but aren't initialised until
// first command execution. This two-phase pattern allows extensions to
// declare commands before the store exists. The service is created once
// and shared across all extensions via the Context.

package cmd

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/jpl-au/revdrill/extension"
	"github.com/jpl-au/revdrill/internal/config"
	"github.com/jpl-au/revdrill/internal/log"
	"github.com/jpl-au/revdrill/internal/trainer"
)

// noStoreCommands lists commands that bypass automatic store initialisation.
// Built dynamically from bootstrap commands plus extension-declared storeless commands.
var noStoreCommands map[string]bool

// loginRequiredCommands lists commands that refuse to run without a
// logged-in account. These are the commands that create or mutate
// exercises; reads fail later with a service error instead.
var loginRequiredCommands = map[string]bool{
	"generate": true,
	"review":   true,
	"abandon":  true,
}

// buildNoStoreCommands creates the set of commands that skip store initialisation.
//
// Why this exists: Most commands need the training store, but some must work
// without it. There are two categories:
//
//  1. Bootstrap commands (init, guide, config, llm) - These help users set up
//     or learn about revdrill before a store exists. Running "revdrill guide"
//     shouldn't fail just because you haven't run "revdrill init" yet.
//
//  2. Extension-declared storeless commands - Extensions can implement the
//     Storeless interface to declare commands that manage their own service
//     lifecycle. For example, "vacuum" opens and closes its own service, and
//     "taxonomy" works straight off the embedded catalog.
//
// When adding a new command: If it's a core bootstrap command, add it here.
// Otherwise, implement extension.Storeless in your extension.
func buildNoStoreCommands() map[string]bool {
	cmds := map[string]bool{
		// Core bootstrap commands - always storeless
		"init":   true,
		"guide":  true,
		"config": true,
		"llm":    true,
	}

	// Add extension-declared storeless commands
	for _, ext := range extension.All() {
		if s, ok := ext.(extension.Storeless); ok {
			for _, name := range s.NoStoreCommands() {
				cmds[name] = true
			}
		}
	}

	return cmds
}

// Global extension context, created during initialisation.
var (
	extContext extension.Context
	extService *trainer.Service
	initOnce   sync.Once
	initErr    error
)

// initExtensions creates the training service and injects it into extensions.
//
// Why sync.Once: The service is expensive to create (opens DB, sets up WAL mode)
// and must be shared across all extensions. We use sync.Once to guarantee exactly
// one initialisation per process, even if multiple commands somehow trigger it.
//
// Error handling: ErrNotInitialised is expected for first-time users who haven't
// run "revdrill init" yet - the command fails with a clear message. Other errors
// (permissions, corruption) are returned immediately.
func initExtensions() error {
	initOnce.Do(func() {
		svc, err := trainer.New(DB())
		if err != nil {
			initErr = fmt.Errorf("opening database: %w", err)
			return
		}
		extService = svc

		// Set project identifier for audit logging
		log.SetProject(filepath.Dir(svc.DBPath()))

		cfg, err := config.Load()
		if err != nil {
			initErr = err
			return
		}
		extContext = extension.NewContext(svc, svc.DB(), cfg)
		svc.SetExtensionContext(extContext)

		// Inject the shared context into all Initializable extensions.
		// This is dependency injection - extensions receive the service rather
		// than creating it themselves, enabling shared state and proper cleanup.
		for _, ext := range extension.All() {
			if init, ok := ext.(extension.Initializable); ok {
				if err := init.Init(extContext); err != nil {
					initErr = fmt.Errorf("init extension %s: %w", ext.Name(), err)
					return
				}
			}
		}
	})
	return initErr
}

var extensionsOnce sync.Once

// registerExtensions adds commands from all registered extensions.
// Called once before Execute runs.
func registerExtensions() {
	extensionsOnce.Do(func() {
		for _, ext := range extension.All() {
			for _, cmd := range ext.Commands() {
				rootCmd.AddCommand(cmd)
			}
		}

		// Build noStoreCommands after all extensions are registered
		noStoreCommands = buildNoStoreCommands()
	})
}
