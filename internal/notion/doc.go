// Package notion reads and writes pages in the Notion catalog databases.
//
// Write payloads are built from typed property constructors; a property
// that is absent from the map is simply not sent, which is how partial
// updates leave untouched fields alone.
package notion
