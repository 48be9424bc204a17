package command

// RunFunc is the body of a command invocation.
type RunFunc func(ctx *Context) error

// Middleware decorates a command, usually through Wrap.
type Middleware func(Command) Command

// Wrap returns cmd with its Run replaced by run. Name, flags and help
// still come from cmd, so a wrapped command registers like the original.
func Wrap(cmd Command, run RunFunc) Command {
	return &wrapped{Command: cmd, run: run}
}

type wrapped struct {
	Command
	run RunFunc
}

func (w *wrapped) Run(ctx *Context) error { return w.run(ctx) }

// ApplyMiddlewares wraps cmd in order: the last middleware runs first.
func ApplyMiddlewares(cmd Command, mws ...Middleware) Command {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	return cmd
}
