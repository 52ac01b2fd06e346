/*
Package dsl provides a Go DSL for programmatically constructing machine documents.

It allows developers to define machines with a fluent builder instead of YAML or JSON
files, which is handy for generated machines, unit tests and IDE completion. States
are declared on first mention, in order; a rule without Write keeps the scanned symbol.

Example usage:

	b := dsl.New("unary").Alphabet("0", "1").Blank("0")

	b.State("A").Initial().
		On("0").Write("1").Right().Go("B").
		On("1").Left().Go("C")
	b.State("B").
		On("0").Write("1").Left().Go("A").
		On("1").Right().Go("B")
	b.State("C").
		On("0").Write("1").Left().Go("B").
		On("1").Right().Go("HALT")
	b.State("HALT").Final()

	// The resulting loader can be passed to turing.Load or runner.NewCatalog.
	loader, err := b.Build()
*/
package dsl
