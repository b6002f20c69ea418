// Package config reads the page manifest used by the velement CLI.
//
// A manifest is a YAML file describing one preview page:
//
//	title: Demo
//	batch_render: true
//	server:
//	  addr: ":8080"
//	components:
//	  - tag: x-counter
//	    id: counter
//	    attributes:
//	      count: 3
//	      step: 2
//	  - tag: x-badge
//	    id: status
//	    attributes:
//	      tone: ok
//	    slot: Ready
//
// Attribute values are kept in their serialized (string) form; the element
// coerces them to each property's declared type. Validation errors carry
// the manifest line of the offending entry.
package config
