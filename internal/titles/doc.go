// Package titles parses plain-text anime title lists and selects the
// subset of titles a run operates on.
package titles
