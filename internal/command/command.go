// Package command is the CLI framework: a tree of named commands with
// aliases, middleware and a shared invocation context.
package command

import (
	"flag"
	"fmt"
	"io"

	"github.com/keshon/coderepo/internal/logger"
	"github.com/keshon/coderepo/internal/object"
	"github.com/keshon/coderepo/internal/repo"
)

// Command represents a cli command
type Command interface {
	Name() string
	Short() string
	Aliases() []string
	Usage() string
	Brief() string
	Help() string
	Subcommands() []Command
	Flags(fs *flag.FlagSet)
	Run(ctx *Context) error
}

// Context represents a cli context
type Context struct {
	Args   []string
	Flags  *flag.FlagSet
	Stdin  io.Reader
	Stdout io.Writer
	Log    logger.Logger

	// Open returns the repository the command works on.
	Open func() (*repo.Repository, error)

	repo *repo.Repository
}

// Repository opens the repository on first use.
func (c *Context) Repository() (*repo.Repository, error) {
	if c.repo != nil {
		return c.repo, nil
	}
	if c.Open == nil {
		return nil, fmt.Errorf("no repository available")
	}
	r, err := c.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	c.repo = r
	return r, nil
}

// Project parses "owner/name". A bare name belongs to the current author.
func (c *Context) Project(name string) (object.Project, error) {
	if name == "" {
		return object.Project{}, fmt.Errorf("project is required (-p owner/name)")
	}
	if p, ok := object.ParseProject(name); ok {
		return p, nil
	}
	r, err := c.Repository()
	if err != nil {
		return object.Project{}, err
	}
	return r.CurrentProject(name)
}

// Branch returns name, or the repository's default branch when empty.
func (c *Context) Branch(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	r, err := c.Repository()
	if err != nil {
		return "", err
	}
	return r.Config.DefaultBranch, nil
}

func (c *Context) close() error {
	if c.repo == nil {
		return nil
	}
	err := c.repo.Close()
	c.repo = nil
	return err
}
