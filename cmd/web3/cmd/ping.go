package cmd

import (
	"errors"
	"fmt"

	"github.com/rovshanmuradov/solana-web3/internal/rpc"
	"github.com/spf13/cobra"
)

func newPingCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check health of the configured RPC nodes",
		Long:  `Call getHealth on every configured RPC node in parallel and report the result per node.`,
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(cmd *cobra.Command, a *app, args []string) error {
			pool, err := rpc.NewPoolFromURLs(a.cfg.RPCList, rpc.Options{
				Timeout: a.cfg.RequestTimeout(),
				Metrics: a.metrics,
				Logger:  a.log.Logger,
			})
			if err != nil {
				return err
			}

			results := pool.CheckHealth(cmd.Context())

			out := cmd.OutOrStdout()
			healthy := 0
			for _, client := range pool.Clients {
				if err := results[client.URL]; err != nil {
					fmt.Fprintf(out, "%-50s FAIL %v\n", client.URL, err)
					continue
				}
				_, _, latency := client.GetMetrics()
				fmt.Fprintf(out, "%-50s OK   %s\n", client.URL, latency)
				healthy++
			}

			if healthy == 0 {
				return errors.New("no healthy RPC nodes")
			}
			return nil
		}),
	}
}
