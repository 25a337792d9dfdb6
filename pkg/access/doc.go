/*
Package access serializes automation runs against a GUI instance.

A connection.Manager is single-threaded and a desktop GUI can only be driven
by one script at a time. The Coordinator holds a per-application lock inside
the process and, when configured with a ports.DistributedLocker, a lock shared
with every other process driving the same GUI host.
*/
package access
