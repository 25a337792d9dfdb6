/*
Package connection implements the connection manager for a running SAP GUI.

A Manager locates the GUI's root scripting object through a ports.Activator,
walks the fixed path application → scripting engine → first connection, and
from there resolves the current session and the list of all sessions. Every
handle acquired along the way is owned by the Manager and released exactly
once, either by Close or by the teardown that runs before any phase error is
returned.

A Manager is not safe for concurrent use. Callers that share one GUI between
goroutines or processes serialize access with package access.

	mgr := connection.New(com.New())
	if err := mgr.Connect(ctx); err != nil {
		return err
	}
	defer mgr.Close()

	if err := mgr.FetchCurrentSession(ctx); err != nil {
		return err
	}
	tx, err := mgr.TransactionID(ctx, mgr.CurrentSession())
*/
package connection
