// Package preview builds a page of elements from a manifest and serves it.
//
// A Page owns a dom.Document and the loop its elements run on. Page
// methods must be called on the loop goroutine; the HTTP handlers hop onto
// it with loop.Call.
package preview
