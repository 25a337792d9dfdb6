/*
Package sapgui drives a running SAP GUI for Windows through its scripting interface.

It resolves the GUI's root object in the running object table, walks to the
scripting engine and its first connection, and exposes that connection's
sessions. Every foreign object handle it acquires is released exactly once,
on success or on failure.

# Architecture

The library follows a ports and adapters layout:

  - pkg/connection: the Manager that owns the handle chain and its lifecycle.
  - pkg/ports: the reflective call surface (Object, Collection, Activator) and storage contracts.
  - pkg/adapters/com: the COM Automation bridge used on Windows.
  - pkg/adapters/memory: a scriptable object graph for tests and demos.
  - pkg/inventory: reads session metadata into snapshots.
  - pkg/access: serializes work against one GUI, locally or through redis.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/sapgui"
		"github.com/aretw0/sapgui/pkg/adapters/com"
	)

	func main() {
		activator := com.New()
		defer activator.Close()

		client := sapgui.New(activator)

		snap, err := client.Sessions(context.Background())
		if err != nil {
			log.Fatal(err)
		}
		for _, s := range snap.Sessions {
			fmt.Println(s.SessionNumber, s.Transaction, s.SystemName)
		}
	}

Faults carry the phase they happened in:

	var gerr *domain.Error
	if errors.As(err, &gerr) {
		log.Println(gerr.Phase)
	}
	if errors.Is(err, domain.ErrConnection) {
		log.Println("is SAP GUI running with scripting enabled?")
	}
*/
package sapgui
