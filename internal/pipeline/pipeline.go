package pipeline

// Pipeline runs an ordered sequence of Processors over one Context.
type Pipeline struct {
	processors []Processor
}

// New builds a Pipeline from processors, run in order.
func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Default is the standard front-end pipeline up through type checking
// (spec.md §2's lexer -> parser -> loader -> resolver -> checker pass
// list; the lexer and parser run inside LoadStage via the module loader).
func Default() *Pipeline {
	return New(LoadStage{}, ResolveStage{}, CheckStage{})
}

// Run executes the pipeline over ctx, passing each stage's result to the
// next. A stage that hits a fatal condition (e.g. the entry file fails to
// load) leaves later stages as no-ops rather than panicking, so whatever
// diagnostics were collected are still available to the caller.
func (p *Pipeline) Run(ctx *Context) *Context {
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
