package thirdvm

import _ "embed"

// Prelude is the supplemental word set every VM is normally booted with,
// layered on the hand-compiled control-structure words; see prelude.f.
//
//go:embed prelude.f
var Prelude string
