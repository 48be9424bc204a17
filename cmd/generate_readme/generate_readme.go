package main

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/keshon/coderepo/internal/command"

	_ "github.com/keshon/coderepo/internal/command/actions"
	_ "github.com/keshon/coderepo/internal/command/branch"
	_ "github.com/keshon/coderepo/internal/command/cat"
	_ "github.com/keshon/coderepo/internal/command/commit"
	_ "github.com/keshon/coderepo/internal/command/help"
	_ "github.com/keshon/coderepo/internal/command/log"
	_ "github.com/keshon/coderepo/internal/command/tree"
	_ "github.com/keshon/coderepo/internal/command/verify"
)

func main() {
	tplBytes, err := os.ReadFile("README.md.tmpl")
	if err != nil {
		fmt.Printf("Failed to read template: %v\n", err)
		os.Exit(1)
	}

	tpl, err := template.New("readme").Parse(string(tplBytes))
	if err != nil {
		fmt.Printf("Failed to parse template: %v\n", err)
		os.Exit(1)
	}

	var sections strings.Builder
	for _, cmd := range command.AllCommands() {
		fmt.Fprintf(&sections, "### %s\n```\n%s\n\n%s\n```\n\n", cmd.Name(), cmd.Usage(), cmd.Help())
	}

	outFile, err := os.Create("README.md")
	if err != nil {
		fmt.Printf("Failed to create README.md: %v\n", err)
		os.Exit(1)
	}
	defer outFile.Close()

	if err := tpl.Execute(outFile, map[string]string{"CommandSections": sections.String()}); err != nil {
		fmt.Printf("Failed to render template: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("README.md generated successfully")
}
