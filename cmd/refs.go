package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var refsCmd = &cobra.Command{
	Use:   "refs",
	Short: "Manage the client and product reference lists",
}

var refsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known clients and products",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		refs, err := newTracker(st).Refs(ctx)
		if err != nil {
			return eris.Wrap(err, "refs list")
		}

		fmt.Printf("Clients (%d):\n", len(refs.Clients))
		for _, c := range refs.Clients {
			fmt.Printf("  %s\n", c)
		}
		fmt.Printf("Products (%d):\n", len(refs.Products))
		for _, p := range refs.Products {
			fmt.Printf("  %s\n", p)
		}
		if len(refs.Benchmarks) > 0 {
			fmt.Printf("Benchmarks (%d):\n", len(refs.Benchmarks))
			w := newTable(os.Stdout)
			for _, b := range refs.Benchmarks {
				_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s/kg\n",
					truncate(b.Product, 30), b.Market, b.Incoterm, b.Month, usd(b.RefPriceUSDKg))
			}
			_ = w.Flush()
		}
		return nil
	},
}

var refsAddCmd = &cobra.Command{
	Use:   "add <client|product> <value>",
	Short: "Add a reference value",
	Args:  cobra.ExactArgs(2),
	RunE:  func(cmd *cobra.Command, args []string) error { return editRefs(cmd, args, true) },
}

var refsRemoveCmd = &cobra.Command{
	Use:   "remove <client|product> <value>",
	Short: "Remove a reference value",
	Args:  cobra.ExactArgs(2),
	RunE:  func(cmd *cobra.Command, args []string) error { return editRefs(cmd, args, false) },
}

func editRefs(cmd *cobra.Command, args []string, add bool) error {
	ctx := cmd.Context()

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	tr := newTracker(st)
	refs, err := tr.Refs(ctx)
	if err != nil {
		return eris.Wrap(err, "refs")
	}

	kind, value := args[0], args[1]
	var changed bool
	switch kind {
	case "client":
		if add {
			changed = refs.UpsertClient(value)
		} else {
			changed = refs.RemoveClient(value)
		}
	case "product":
		if add {
			changed = refs.UpsertProduct(value)
		} else {
			changed = refs.RemoveProduct(value)
		}
	default:
		return eris.Errorf("refs: unknown kind %q (want client or product)", kind)
	}

	if !changed {
		fmt.Fprintln(os.Stderr, "No change.")
		return nil
	}
	if err := tr.SaveRefs(ctx, refs); err != nil {
		return eris.Wrap(err, "refs")
	}
	if add {
		fmt.Printf("Added %s %q\n", kind, value)
	} else {
		fmt.Printf("Removed %s %q\n", kind, value)
	}
	return nil
}

func init() {
	refsCmd.AddCommand(refsListCmd)
	refsCmd.AddCommand(refsAddCmd)
	refsCmd.AddCommand(refsRemoveCmd)
	rootCmd.AddCommand(refsCmd)
}
