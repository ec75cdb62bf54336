// Package vision extracts anime titles from screenshots using a
// chat-completions vision API. It is an external collaborator of the
// sync engine: its output is a plain title list the sync command
// consumes like any other input file.
package vision
