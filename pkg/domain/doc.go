/*
Package domain contains the core domain models of the SAP GUI scripting bridge.

It defines the vocabulary shared by the connection manager and its adapters:
the connection lifecycle states, the phase-tagged errors raised when a step of
the object walk fails, the session metadata read from a running GUI and the
observability hooks emitted while handles are acquired and released. This
package is kept free of I/O and of any platform automation API.

# Key Entities

  - ConnState: Lifecycle of a connection (Uninitialized, Connected, SessionsResolved, Closed).
  - Error: A failure of one connection phase, carrying the underlying cause.
  - SessionInfo: The metadata exposed by a session's "Info" object.
  - Snapshot: A point-in-time inventory of every session of a GUI instance.
  - Hooks: Callbacks for handle acquisition, release, reflective calls and faults.
*/
package domain
