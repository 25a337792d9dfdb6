/*
Package ports defines the driven ports (interfaces) of the SAP GUI bridge.

These interfaces decouple the connection manager from the platform automation
mechanism and from the infrastructure around it, so the same walk runs against
COM on Windows, against an in-memory object graph in tests, and persists its
results to any snapshot backend.

# Key Interfaces

  - Object: An opaque handle to a foreign object, with reflective invoke/get/set and release.
  - Collection: An Object that can be enumerated into further handles.
  - Activator: Resolves a running application's root object by its registered name.
  - SnapshotStore: Persists session inventories.
  - DistributedLocker: Serializes access to one GUI instance across processes.
*/
package ports
