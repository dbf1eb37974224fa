package cmd

/*
Local document commands. Each reads a JSON document from disk, decodes it as
the catalog type named by --type and evaluates access rules against the
decoded value, the same way the inspector service does for open documents.

	fields  lists every exposed field path in breadth-first order
	get     prints the value at one dotted path
	set     writes one value and prints (or, with --write, saves) the document
*/

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/beatforge/fieldgate/internal/core/api"
	"github.com/beatforge/fieldgate/internal/core/config"
	"github.com/beatforge/fieldgate/internal/fieldpath"
	"github.com/beatforge/fieldgate/internal/game"
	"github.com/beatforge/fieldgate/internal/rules"
)

var (
	docType   string
	getFormat string
	setWrite  bool
)

var fieldsCmd = &cobra.Command{
	Use:   "fields FILE",
	Short: "List the exposed fields of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runFields,
}

var getCmd = &cobra.Command{
	Use:   "get FILE PATH",
	Short: "Print the value of one field",
	Args:  cobra.ExactArgs(2),
	RunE:  runGet,
}

var setCmd = &cobra.Command{
	Use:   "set FILE PATH JSON_VALUE",
	Short: "Set the value of one field",
	Example: `  fieldgate set --type chart song.json Boss.Manual.FixedUpdate true --write
  fieldgate set --type note-visual note.json Kind '"spine"'`,
	Args: cobra.ExactArgs(3),
	RunE: runSet,
}

func init() {
	for _, c := range []*cobra.Command{fieldsCmd, getCmd, setCmd} {
		c.Flags().StringVar(&docType, "type", "", "document type (see 'fieldgate types')")
		_ = c.MarkFlagRequired("type")
		rootCmd.AddCommand(c)
	}
	getCmd.Flags().StringVar(&getFormat, "format", "json", "output format (json, spew)")
	setCmd.Flags().BoolVar(&setWrite, "write", false, "write the result back to FILE instead of stdout")
	rootCmd.AddCommand(typesCmd)
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the document types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, catalog, err := localEngine()
		if err != nil {
			return err
		}
		for _, name := range catalog.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

// openLocal decodes FILE as --type and returns it with the engine.
func openLocal(path string) (*rules.Engine, any, error) {
	engine, catalog, err := localEngine()
	if err != nil {
		return nil, nil, err
	}
	data, err := readInput(path)
	if err != nil {
		return nil, nil, err
	}
	doc, err := catalog.Decode(docType, data)
	if err != nil {
		return nil, nil, err
	}
	return engine, doc, nil
}

func localEngine() (*rules.Engine, *game.Catalog, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return loadEngine(cfg)
}

func runFields(cmd *cobra.Command, args []string) error {
	engine, doc, err := openLocal(args[0])
	if err != nil {
		return err
	}
	paths, err := fieldpath.Enumerate(engine, doc)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tTYPE\tSEMANTICS\tVALUE")
	for _, p := range paths {
		value := ""
		if v, err := fieldpath.Get(p, doc); err == nil {
			if data, err := json.Marshal(v); err == nil {
				value = string(data)
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p, p.Type(), p.Field().Semantics(), value)
	}
	return w.Flush()
}

func runGet(cmd *cobra.Command, args []string) error {
	engine, doc, err := openLocal(args[0])
	if err != nil {
		return err
	}
	p, err := fieldpath.Lookup(engine, doc, args[1])
	if err != nil {
		return err
	}
	v, err := fieldpath.Get(p, doc)
	if err != nil {
		return err
	}

	switch getFormat {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	case "spew":
		spew.Fdump(cmd.OutOrStdout(), v)
	default:
		return fmt.Errorf("invalid --format %q (want json or spew)", getFormat)
	}
	return nil
}

func runSet(cmd *cobra.Command, args []string) error {
	engine, doc, err := openLocal(args[0])
	if err != nil {
		return err
	}
	p, err := fieldpath.Lookup(engine, doc, args[1])
	if err != nil {
		return err
	}
	value, err := api.DecodeValue(p.Type(), json.RawMessage(args[2]))
	if err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}

	ref := fieldpath.NewRef(func() any { return doc }, func(v any) { doc = v })
	if err := fieldpath.Set(p, ref, value); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if !setWrite {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s updated\n", args[0])
	return nil
}
