// Package middleware holds command decorators shared by every command.
package middleware

import (
	"github.com/keshon/coderepo/internal/command"
)

// WithArgsLog logs the command name and its arguments at debug level.
func WithArgsLog() command.Middleware {
	return func(cmd command.Command) command.Command {
		return command.Wrap(cmd, func(ctx *command.Context) error {
			if ctx.Log != nil {
				ctx.Log.Debug("run %s args=%q", cmd.Name(), ctx.Args)
			}
			return cmd.Run(ctx)
		})
	}
}
