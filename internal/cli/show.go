package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ordrect/ordrect/pkg/cache"
	"github.com/ordrect/ordrect/pkg/rectio"
	"github.com/ordrect/ordrect/pkg/set"
)

// showOpts holds the command-line flags for the show command.
type showOpts struct {
	orderOpts
	units    int    // grid resolution in character cells
	output   string // output file path (stdout if empty)
	refresh  bool   // bypass the artifact cache
	noLabels bool   // draw borders without order numbers
}

// newShowCmd creates the show command.
// It discretizes the document onto a character grid and prints it, with
// each rectangle's border labeled by its position in the drawing order.
func newShowCmd() *cobra.Command {
	var opts showOpts

	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Render a rectangle document as an ASCII grid",
		Long: `Render a rectangle document as an ASCII grid.

Rectangles are drawn bottom to top in the resolved order, so later
rectangles overwrite earlier ones where they overlap. Each border carries
the rectangle's 1-based position in the order.

Examples:
  ordrect show layout.json
  ordrect show layout.json --units 80 -o layout.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0], &opts)
		},
	}

	addOrderFlags(cmd, &opts.orderOpts)
	cmd.Flags().IntVarP(&opts.units, "units", "u", 0, "grid resolution (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the artifact cache")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "draw borders without order numbers")

	return cmd
}

func runShow(cmd *cobra.Command, path string, opts *showOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	units := opts.units
	if units == 0 {
		units = cfg.Units
	}
	if units < 2 {
		return fmt.Errorf("units must be >= 2, got %d", units)
	}

	doc, err := readDocumentArg(path)
	if err != nil {
		return err
	}
	setOpts, err := opts.setOptions()
	if err != nil {
		return err
	}

	view, cached, err := cachedView(ctx, cfg, doc, setOpts, opts.keyOpts(), units, !opts.noLabels, opts.refresh)
	if err != nil {
		if errors.Is(err, set.ErrUnresolved) {
			printError("Cannot render: the constraints contain a cycle")
			printNextStep("Inspect the conflict", fmt.Sprintf("ordrect order %s", path))
		}
		return err
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(view), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.output, err)
		}
		printSuccess("Wrote view")
		printFile(opts.output)
	} else {
		fmt.Print(view)
	}

	logger.Debug("rendered view", "units", units, "cached", cached)
	printStats(len(doc.Rectangles), len(doc.Constraints), cached)
	return nil
}

// cachedView renders the document's text view through the configured
// artifact cache. Cache failures fall back to direct rendering.
func cachedView(ctx context.Context, cfg Config, doc rectio.Document, setOpts []set.Option, orderKey cache.OrderKeyOpts, units int, showOrder, refresh bool) (string, bool, error) {
	c, err := openCache(cfg)
	if err != nil {
		return "", false, err
	}
	defer c.Close()

	data, err := rectio.Marshal(doc)
	if err != nil {
		return "", false, err
	}
	key := cfg.keyer().ViewKey(cache.Hash(data), cache.ViewKeyOpts{Order: orderKey, Units: units, ShowOrder: showOrder})

	if !refresh {
		if cached, hit, err := c.Get(ctx, key); err == nil && hit {
			return string(cached), true, nil
		}
	}

	st, err := rectio.ToSet(doc, setOpts...)
	if err != nil {
		return "", false, err
	}
	var view string
	if showOrder {
		view, err = st.View(units)
	} else {
		view, err = st.ViewPlain(units)
	}
	if err != nil {
		return "", false, err
	}

	ttl, err := cfg.cacheTTL()
	if err != nil {
		return "", false, err
	}
	if err := c.Set(ctx, key, []byte(view), ttl); err != nil {
		loggerFromContext(ctx).Warn("cache set failed", "err", err)
	}
	return view, false, nil
}
