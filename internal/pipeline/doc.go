// Package pipeline is the batch runner: for each cruise in list order it
// creates and enters the cruise directory, then for each day archive it
// extracts, deletes the archive, removes metadata artifacts and compresses
// the extracted EVT files.
//
// Every step takes the cruise directory explicitly and external tools get it
// as their working directory; the process working directory never changes.
// The first error halts the whole batch.
package pipeline
