package access

// Pending exposes the number of live lock entries to tests.
func (c *Coordinator) Pending() int {
	return c.pending()
}
