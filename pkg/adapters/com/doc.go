/*
Package com resolves SAP GUI through COM Automation on Windows.

The running GUI publishes its root object in the running object table under
the name "SAPGUI". The Activator reaches it through the SapROTWr.SapROTWrapper
helper installed with SAP GUI, and every foreign object is exposed as an
*Object wrapping an IDispatch interface. Reflective calls map onto
oleutil.CallMethod, oleutil.GetProperty and oleutil.PutProperty.

On other platforms New returns an Activator whose Activate always fails with
ErrUnsupportedPlatform.
*/
package com
