// Package engine implements the reconciliation core: matching the attached
// monitor set to a configured layout, allocating a CRTC per configured
// output, and applying the resulting transaction in the protocol-mandated
// order (disable, resize, enable).
package engine
