// weft - WEFT codec CLI tool
//
// Converts between WEFT text, JSON and YAML, and reformats WEFT documents.
// Commands read from a file argument or stdin and write to stdout.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/weft-format/weft/weft"
)

const version = "0.1.0"

var cli struct {
	FromJSON convertCmd `cmd:"" name:"from-json" help:"Convert JSON to WEFT text."`
	ToJSON   convertCmd `cmd:"" name:"to-json" help:"Convert WEFT text to JSON."`
	FromYAML convertCmd `cmd:"" name:"from-yaml" help:"Convert YAML to WEFT text."`
	ToYAML   convertCmd `cmd:"" name:"to-yaml" help:"Convert WEFT text to YAML."`
	Fmt      fmtCmd     `cmd:"" help:"Reformat WEFT text canonically."`
	Version  versionCmd `cmd:"" help:"Print version info."`
}

type convertCmd struct {
	File   string `arg:"" optional:"" type:"existingfile" help:"Input file (default stdin)."`
	Indent bool   `help:"Pretty-print WEFT output."`
}

type fmtCmd struct {
	File      string `arg:"" optional:"" type:"existingfile" help:"Input file (default stdin)."`
	Indent    bool   `help:"Pretty-print output."`
	NoTabular bool   `help:"Disable @tab blocks for object arrays."`
}

type versionCmd struct{}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("weft"),
		kong.Description("WEFT codec: order-faithful structured text."),
		kong.UsageOnError(),
	)
	if err := run(ctx.Command()); err != nil {
		fmt.Fprintf(os.Stderr, "weft: %v\n", err)
		os.Exit(1)
	}
}

func run(command string) error {
	switch command {
	case "from-json", "from-json <file>":
		return convert(cli.FromJSON, weft.FromJSON, emitText(cli.FromJSON.Indent, true))
	case "to-json", "to-json <file>":
		return convert(cli.ToJSON, parseText, weft.ToJSON)
	case "from-yaml", "from-yaml <file>":
		return convert(cli.FromYAML, weft.FromYAML, emitText(cli.FromYAML.Indent, true))
	case "to-yaml", "to-yaml <file>":
		return convert(cli.ToYAML, parseText, weft.ToYAML)
	case "fmt", "fmt <file>":
		c := convertCmd{File: cli.Fmt.File}
		return convert(c, parseText, emitText(cli.Fmt.Indent, !cli.Fmt.NoTabular))
	case "version":
		fmt.Printf("weft %s\n", version)
		return nil
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func parseText(data []byte) (*weft.Value, error) {
	return weft.ParseText(string(data))
}

func emitText(indent, tabular bool) func(*weft.Value) ([]byte, error) {
	return func(v *weft.Value) ([]byte, error) {
		opts := weft.DefaultEmitOptions()
		opts.Pretty = indent
		opts.Tabular = tabular
		return []byte(weft.EmitWithOptions(v, opts)), nil
	}
}

func convert(c convertCmd, decode func([]byte) (*weft.Value, error), encode func(*weft.Value) ([]byte, error)) error {
	data, err := readInput(c.File)
	if err != nil {
		return err
	}
	v, err := decode(data)
	if err != nil {
		return err
	}
	out, err := encode(v)
	if err != nil {
		return err
	}
	os.Stdout.Write(out)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		fmt.Println()
	}
	return nil
}

func readInput(file string) ([]byte, error) {
	if file == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(file)
}
