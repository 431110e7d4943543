// Package x32 mirrors the state of an X32 console from the OSC traffic it
// sends back. A Console is fed raw datagrams through Process and answers
// with a Result describing what changed. The package also builds the
// requests that make the console report its state in the first place.
//
// A Console is not safe for concurrent use. One goroutine should own it.
package x32
