package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fxCmd = &cobra.Command{
	Use:   "fx [amount-usd]",
	Short: "Show the USD/EUR rate, optionally converting an amount",
	Long:  "The rate is fetched from the configured API and cached for 24 hours; when both the cache and the API are unavailable a static fallback applies.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rate, source := newFxClient(st).USDEUR(ctx)
		fmt.Printf("USD/EUR: %.4f (%s)\n", rate, source)

		if len(args) == 1 {
			amount, err := parseFloatArg(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s = %s\n", usd(amount), money.Sprintf("€%.2f", amount*rate))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fxCmd)
}
