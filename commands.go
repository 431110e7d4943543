package main

import (
	"encoding/hex"
	"fmt"

	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/normen/x32-osc/config"
	"github.com/normen/x32-osc/osc"
	"github.com/normen/x32-osc/x32"
)

var showHex bool

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Print the messages sent to the console on a full update",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		for _, buf := range append(x32.FullUpdate(), x32.KeepAlive()) {
			if showHex {
				fmt.Fprintln(out, hex.EncodeToString(buf))
				continue
			}
			m, err := osc.Decode(buf)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, m.Text())
		}
		return nil
	},
}

var openConfig bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write the config file and print its location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.InitConfig(configPath); err != nil {
			return err
		}
		path := config.GetConfigFilePath()
		fmt.Fprintln(cmd.OutOrStdout(), path)
		if openConfig {
			return open.Run(path)
		}
		return nil
	},
}

func init() {
	requestsCmd.Flags().BoolVar(&showHex, "hex", false, "print raw bytes as hex")
	configCmd.Flags().BoolVar(&openConfig, "open", false, "open the config file in the default editor")
}
