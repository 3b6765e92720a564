// Package connectors reads knowledge-base content from outside the process.
// The filesystem connector loads topic and problem files and watches them
// for changes.
package connectors
