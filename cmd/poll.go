package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nodepulse/nodepulse/config"
	"github.com/nodepulse/nodepulse/log"
	"github.com/nodepulse/nodepulse/probe"
	"github.com/nodepulse/nodepulse/util"
)

func pollCmd() *cobra.Command {
	var light bool

	cmd := &cobra.Command{
		Use:   "poll [network]",
		Short: "Poll one network once and print the cards as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}

			logger := log.NewLogger(cfg)
			util.InitLimiter(cfg)

			networkKey := args[0]
			network, ok := cfg.GetNetwork(networkKey)
			if !ok {
				return fmt.Errorf("unknown network: %s", networkKey)
			}

			prober := probe.New(cfg, logger)
			cards := prober.PollNetwork(cmd.Context(), networkKey, network, probe.PollOptions{Light: light})

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(cards)
		},
	}

	cmd.Flags().BoolVar(&light, "light", false, "skip RPC latency sampling")

	return cmd
}
