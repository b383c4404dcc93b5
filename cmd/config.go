package cmd

import (
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/nibzard/simpletodo/internal/config"
)

// configCommand prints the effective configuration with the source of each
// value.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("simpletodo config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	example := fs.Bool("example", false, "Print an example config file")
	path := fs.Bool("path", false, "Print the user config file location")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *example:
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	case *path:
		fmt.Fprintln(stdout, config.UserConfigPath())
		return nil
	}

	if len(cws.Files) == 0 {
		fmt.Fprintln(stdout, "Config files: (none)")
	} else {
		fmt.Fprintln(stdout, "Config files:")
		for _, f := range cws.Files {
			fmt.Fprintf(stdout, "  %s\n", f)
		}
	}
	fmt.Fprintln(stdout)

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	for _, f := range cws.Fields() {
		fmt.Fprintf(tw, "%s\t%s\t(%s)\n", f.Name, f.Value, f.Source)
	}
	return tw.Flush()
}
