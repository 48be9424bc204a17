package command

import (
	"errors"
	"sort"
	"strings"
)

// ErrUnknownCommand is returned when args name no registered command.
var ErrUnknownCommand = errors.New("unknown command")

// Node represents a node in the command tree.
type Node struct {
	Cmd         Command
	Subcommands map[string]*Node
}

// CommandTree manages all commands and subcommands. Names and aliases
// are matched case-insensitively.
type CommandTree struct {
	root *Node
}

// NewTree creates a new empty command tree.
func NewTree() *CommandTree {
	return &CommandTree{
		root: &Node{Subcommands: make(map[string]*Node)},
	}
}

// Register inserts a command and all its subcommands recursively.
func (t *CommandTree) Register(cmd Command) {
	t.insert(t.root, cmd)
}

// Get returns a top-level command by name or alias.
func (t *CommandTree) Get(name string) (Command, bool) {
	node, ok := t.root.Subcommands[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return node.Cmd, true
}

func (t *CommandTree) insert(node *Node, cmd Command) {
	sub := &Node{Cmd: cmd, Subcommands: make(map[string]*Node)}
	for _, subcmd := range cmd.Subcommands() {
		t.insert(sub, subcmd)
	}
	// aliases share the node of the primary name
	for _, n := range append([]string{cmd.Name()}, cmd.Aliases()...) {
		if n != "" {
			node.Subcommands[strings.ToLower(n)] = sub
		}
	}
}

// Resolve walks down the command tree following args.
func (t *CommandTree) Resolve(args []string) (*Node, []string, error) {
	node := t.root
	for len(args) > 0 {
		next, ok := node.Subcommands[strings.ToLower(args[0])]
		if !ok {
			break
		}
		node = next
		args = args[1:]
	}
	if node.Cmd == nil {
		return nil, nil, ErrUnknownCommand
	}
	return node, args, nil
}

// All returns every distinct command in the tree sorted by name.
func (t *CommandTree) All() []Command {
	var cmds []Command
	seen := make(map[*Node]bool)

	var walk func(node *Node)
	walk = func(node *Node) {
		for _, sub := range node.Subcommands {
			if seen[sub] {
				continue
			}
			seen[sub] = true
			cmds = append(cmds, sub.Cmd)
			walk(sub)
		}
	}
	walk(t.root)

	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })
	return cmds
}

// commands is the tree the binary dispatches on. Command packages add
// themselves from init.
var commands = NewTree()

func RegisterCommand(cmd Command) { commands.Register(cmd) }

// ResolveCommand walks args down the registered tree.
func ResolveCommand(args []string) (*Node, []string, error) { return commands.Resolve(args) }

func GetCommand(name string) (Command, bool) { return commands.Get(name) }

func AllCommands() []Command { return commands.All() }
