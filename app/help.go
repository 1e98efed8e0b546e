package app

import (
	"fmt"
	"io"
	"strings"

	"khetao.com/clikit/option"
)

// help columns are aligned on 8-wide tab stops
const helpSepCount = 4

// PrintHeader writes the program's base name, its description if any and a
// blank line, then msg.
func (a *App) PrintHeader(w io.Writer, msg string) {
	fmt.Fprintln(w, a.info.Basename)
	if a.description != "" {
		fmt.Fprintln(w, a.description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, msg)
}

// showHelp lists every option with its alias and description.
func (a *App) showHelp(ctx *option.ActionContext) error {
	w := a.out
	a.PrintHeader(w, "Options:")
	fmt.Fprintf(w, "\tAlias\tOption%sDescription\n", strings.Repeat("\t", helpSepCount))
	fmt.Fprintln(w)

	for _, s := range ctx.Registry.Specs() {
		alias := ""
		if s.Alias != "" {
			alias = "(" + s.Alias + ") "
		}
		description := s.Description
		if description == "" {
			description = "No description"
		}
		tabs := helpSepCount - len(s.Name)/8
		if tabs < 1 {
			tabs = 1
		}
		fmt.Fprintf(w, "\t%s\t%s%s- %s\n", alias, s.Name, strings.Repeat("\t", tabs), description)
	}
	return nil
}

// showVersion prints the version; with -verbose given before -version it
// prints the full build information as YAML.
func (a *App) showVersion(ctx *option.ActionContext) error {
	info := a.buildInfo()
	a.PrintHeader(a.out, "Version: "+info.Version)
	if !ctx.Store.Bool("verbose") {
		return nil
	}
	out, err := info.Render("yaml")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out)
	fmt.Fprint(a.out, out)
	return nil
}
