// Package errors provides coded, structured errors for velement.
//
// Every failure the library reports to a caller or a log line carries a code
// (e.g. "E101") that maps to a short message, a longer explanation and a
// documentation URL:
//
//	err := errors.New("E201").
//	    WithLocation("page.yaml", 12, 5).
//	    WithSuggestion("give every component a unique id")
//
//	fmt.Println(err.Format())
//	// ERROR E201: Invalid page manifest
//	//
//	//   page.yaml:12:5
//	//   ...
//
// # Error Categories
//
//   - property: undeclared keys and reflection failures
//   - coercion: malformed serialized attribute values
//   - lifecycle: mount/unmount misuse
//   - plugin: capability registration conflicts
//   - config: page manifest problems
//   - cli: command line usage
package errors
