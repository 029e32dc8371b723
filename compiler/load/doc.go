// Package load reads and validates the type cards compiled by the
// generator.
//
// A type card is a card envelope whose kind marker is type@<version> and
// whose data.schema declares the JSON Schema of an entity type:
//
//	slug: support-thread
//	version: 1.0.0
//	type: type@1.0.0
//	data:
//	  schema:
//	    type: object
//	    properties:
//	      title: {type: string}
//
// Sources implement Source. Dir reads .json, .jsonc and .yaml documents
// from a directory tree, Static holds cards built in memory, and the
// dialect/sql package reads them from a database. NewCard validates the
// slug, the semantic version and the entity schema of a card.
package load
