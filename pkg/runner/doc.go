/*
Package runner drives Turing engines from the outside world.

The engine itself never bounds a run. The runner adds the limits a host needs (maximum
step count, wall-clock timeout), resolves machines by name through a Catalog, and
renders traces for people (TextSink, Report) and for programs (JSONSink).

# Usage

	cat := runner.NewCatalog(loader)
	eng, doc, err := cat.Get(ctx, "unary")
	if err != nil {
		log.Fatal(err)
	}

	cfg := eng.Start(doc.TapeSymbols())
	r := runner.New(eng, runner.WithMaxSteps(10_000), runner.WithTimeout(5*time.Second))
	res, err := r.Run(ctx, cfg, runner.NewTextSink(os.Stdout, cfg))
*/
package runner
