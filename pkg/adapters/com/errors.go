package com

import "errors"

// ErrUnsupportedPlatform is returned when COM is not available.
var ErrUnsupportedPlatform = errors.New("COM automation is only available on windows")

// ROTWrapperProgID is the helper object that exposes the running object table to automation clients.
const ROTWrapperProgID = "SapROTWr.SapROTWrapper"
