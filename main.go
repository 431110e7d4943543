package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/normen/x32-osc/config"
	"github.com/normen/x32-osc/link"
	"github.com/normen/x32-osc/logging"
	"github.com/normen/x32-osc/msg"
	"github.com/normen/x32-osc/publish"
)

var VERSION string = "v0.1.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:     "x32-osc",
	Short:   "Mirror the faders and cues of an X32 console",
	Version: VERSION,
	Long: `x32-osc keeps a live copy of the faders and show control state of a
Behringer X32 console over OSC and republishes every change over MQTT
and a websocket feed.`,
	SilenceUsage: true,
	RunE:         runBridge,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default in the XDG config dir)")
	rootCmd.AddCommand(requestsCmd, configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runBridge(cmd *cobra.Command, _ []string) error {
	if err := config.InitConfig(configPath); err != nil {
		return err
	}
	logging.Configure(*config.Config.Logging)
	log.Info().Str("version", VERSION).Str("config", config.GetConfigFilePath()).Msg("X32-OSC")

	requests := make(chan interface{}, 10)
	updates := make(chan interface{}, 100)
	cache := publish.NewStateCache()

	var sinks []publish.Sink
	mqttCfg := *config.Config.Mqtt
	if mqttCfg.Enabled {
		client, err := publish.ConnectMQTT(mqttCfg)
		if err != nil {
			return err
		}
		defer client.Close()
		sinks = append(sinks, client)
	}
	var hub *publish.Hub
	if config.Config.Websocket.Enabled {
		hub = publish.NewHub(cache)
		sinks = append(sinks, hub)
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	console := link.New(*config.Config.General, *config.Config.Sync, requests, updates)
	dispatcher := publish.NewDispatcher(mqttCfg.TopicPrefix, mqttCfg.PublishMeters, cache, updates, sinks...)
	g.Go(func() error { return console.Run(ctx) })
	g.Go(func() error { return dispatcher.Run(ctx) })
	if hub != nil {
		ws := *config.Config.Websocket
		g.Go(func() error { return hub.Run(ctx, ws.ListenAddr, ws.Path) })
	}
	g.Go(func() error { return refreshOnHangup(ctx, requests) })
	return g.Wait()
}

// refreshOnHangup asks the console for a full update on every SIGHUP.
func refreshOnHangup(ctx context.Context, requests chan<- interface{}) error {
	hangup := make(chan os.Signal, 1)
	signal.Notify(hangup, syscall.SIGHUP)
	defer signal.Stop(hangup)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hangup:
			log.Info().Msg("Full update requested")
			select {
			case requests <- msg.UpdateRequest{}:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
