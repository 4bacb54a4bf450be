// Package cli implements jobctl, an interactive terminal front end for the
// job tracker: it signs in, lists and filters applications, and edits them
// through the form controller.
package cli
