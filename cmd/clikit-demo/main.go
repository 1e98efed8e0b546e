// Command clikit-demo counts the lines of a file. It shows how a tool is
// put together on top of the app package.
package main

import (
	"bufio"
	_ "embed"
	"os"
	"strings"

	"khetao.com/clikit/app"
	"khetao.com/clikit/log"
	"khetao.com/clikit/option"
	"khetao.com/clikit/shutdown"
)

//go:embed options.yaml
var optionsYAML []byte

func main() {
	decls, err := option.ParseDeclarations(optionsYAML)
	if err != nil {
		log.Fatal(err)
	}
	decls = append(decls, option.Declaration{
		Name:        "mode",
		Type:        "string",
		Default:     option.Text("lines"),
		Description: "What to count: lines or words",
		Validate: func(v option.Value) bool {
			s := v.String()
			return s == "lines" || s == "words"
		},
	})

	a := app.New("clikit-demo",
		app.WithDescription("Counts the lines of a file"),
		app.WithDeclarations(decls...),
		app.WithLogFlags(),
		app.WithShutdownCallback(shutdown.Func(func(name string) error {
			log.Warnf("Interrupted by %s", name)
			return nil
		})),
		app.WithRunFunc(count),
	)
	a.Run(os.Args)
}

func count(a *app.App) error {
	opts := a.Options()
	f, err := os.Open(opts.String("input"))
	if err != nil {
		return err
	}
	defer f.Close()

	pattern := opts.String("pattern")
	limit, _ := opts.Number("limit")
	words := opts.String("mode") == "words"

	total, matched := 0, 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if pattern != "" && !strings.Contains(line, pattern) {
			continue
		}
		matched++
		if words {
			total += len(strings.Fields(line))
		} else {
			total++
		}
		if limit > 0 && float64(matched) >= limit {
			log.Debugf("Stopped after %d lines", matched)
			break
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	log.Successf("%s: %d", a.Info().Basename, total)
	return nil
}
