package turing

import _ "embed"

// Version is the release of the turing module, read from the VERSION file.
//
//go:embed VERSION
var Version string
