package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ordrect/ordrect/pkg/cache"
	"github.com/ordrect/ordrect/pkg/rectio"
	"github.com/ordrect/ordrect/pkg/set"
)

// orderOpts holds the flags shared by commands that resolve a document.
type orderOpts struct {
	infer         bool   // infer constraints from containment
	disjointEdges bool   // keep constraints between disjoint rectangles as edges
	tieBreak      string // tie-break strategy: "id" or "area"
	jsonOut       bool   // print the ordering as a JSON array
}

// addOrderFlags registers the shared resolution flags on cmd.
func addOrderFlags(cmd *cobra.Command, opts *orderOpts) {
	cmd.Flags().BoolVar(&opts.infer, "infer", false, "infer constraints from containment")
	cmd.Flags().BoolVar(&opts.disjointEdges, "disjoint-edges", false, "keep constraints between disjoint rectangles as ordering edges")
	cmd.Flags().StringVar(&opts.tieBreak, "tie-break", "id", "tie-break strategy: id, area")
}

// keyOpts returns the cache key fragment matching the resolution flags.
func (o *orderOpts) keyOpts() cache.OrderKeyOpts {
	k := cache.OrderKeyOpts{Inference: o.infer, DisjointEdges: o.disjointEdges}
	if o.tieBreak == "area" {
		k.TieBreak = "area"
	}
	return k
}

// setOptions converts flags into set options.
func (o *orderOpts) setOptions() ([]set.Option, error) {
	var opts []set.Option
	if o.infer {
		opts = append(opts, set.WithContainmentInference())
	}
	if o.disjointEdges {
		opts = append(opts, set.WithDisjointEdges())
	}
	switch o.tieBreak {
	case "", "id":
	case "area":
		opts = append(opts, set.WithAreaTieBreak())
	default:
		return nil, fmt.Errorf("unknown tie-break %q (valid: id, area)", o.tieBreak)
	}
	return opts, nil
}

// newOrderCmd creates the order command.
// It reads a rectangle document, resolves the drawing order, and prints the
// rectangle IDs bottom to top. Unresolvable documents print the conflict
// report and exit nonzero.
func newOrderCmd() *cobra.Command {
	var opts orderOpts

	cmd := &cobra.Command{
		Use:   "order [file]",
		Short: "Resolve a rectangle document into a drawing order",
		Long: `Resolve a rectangle document into a deterministic bottom-to-top drawing order.

The input is a JSON document with rectangles and ordering constraints.
Use "-" to read from stdin.

Examples:
  ordrect order layout.json
  ordrect order layout.json --infer --tie-break area
  cat layout.json | ordrect order -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(cmd, args[0], &opts)
		},
	}

	addOrderFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the ordering as a JSON array")

	return cmd
}

func runOrder(cmd *cobra.Command, path string, opts *orderOpts) error {
	logger := loggerFromContext(cmd.Context())

	doc, err := readDocumentArg(path)
	if err != nil {
		return err
	}

	setOpts, err := opts.setOptions()
	if err != nil {
		return err
	}

	st, err := rectio.ToSet(doc, setOpts...)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	ids, rep := st.Order()
	if rep != nil {
		printError("Unresolvable ordering: %s", rep)
		for _, group := range rep.Groups {
			printDetail("cycle group: %v", group)
		}
		return fmt.Errorf("cycle detected among %d rectangles", len(rep.Nodes))
	}
	prog.done(fmt.Sprintf("Resolved %d rectangles", len(ids)))

	if opts.jsonOut {
		out, err := json.Marshal(ids)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for i, id := range ids {
		fmt.Printf("%d %s\n", i+1, id)
	}
	printStats(st.Len(), len(st.Constraints()), false)
	printNextStep("Preview the stacking", fmt.Sprintf("ordrect show %s", path))
	return nil
}

// readDocumentArg reads a document from a file path, or stdin for "-".
func readDocumentArg(path string) (rectio.Document, error) {
	if path == "-" {
		return rectio.Read(os.Stdin)
	}
	return rectio.ReadFile(path)
}
