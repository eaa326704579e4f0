package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/jsphweid/barspan/midi"
	"github.com/jsphweid/barspan/model"
	"github.com/jsphweid/barspan/span"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

func init() {
	flags := listenCmd.Flags()
	flags.Int("port", 0, "midi input port number")
	addSessionFlags(flags)
	_ = viper.BindPFlag("port", flags.Lookup("port"))
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:     "listen",
	Short:   "Runs the assembler on a live midi input",
	Long:    `Listens on a midi input port, one track per channel, and serves the live state over http until interrupted.`,
	PreRunE: sessionSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv, closeSession, err := newSession()
		if err != nil {
			return err
		}
		defer closeSession()

		stopListening, err := midi.Listen(cfg.Port, func(n model.Note) {
			srv.Do(func(a *span.Assembler) {
				if err := a.SetTrack(n.Track); err != nil {
					return
				}
				_ = a.Ingest(n.Time, n.Score)
			})
		})
		if err != nil {
			return err
		}
		defer stopListening()
		logger.Info("listening", "port", cfg.Port)

		return serve(ctx, srv)
	},
}
