package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ystepanoff/nrfsniff/host/serial"
	"github.com/ystepanoff/nrfsniff/transport"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Read timestamped packets from a sniffer dongle",
	RunE:  runCapture,
}

func init() {
	captureCmd.Flags().StringP("port", "p", "", "serial port of the sniffer dongle")
	captureCmd.Flags().Int("baud", 0, "serial baud rate")
	captureCmd.Flags().String("pcap", "", `pcap output file ("auto" names it after the session)`)
}

func runCapture(cmd *cobra.Command, args []string) error {
	if cfg.Serial.Port == "" {
		return errors.New("no serial port configured (use --port or serial.port)")
	}

	session := uuid.New()
	log := logger.WithField("session", session.String())

	port, err := serial.Open(cfg.Serial.Port, cfg.Serial.PortOptions)
	if err != nil {
		return err
	}
	defer port.Close()

	out, err := newSink(log, pcapPath(cfg.Capture.Pcap, session), time.Now())
	if err != nil {
		return err
	}
	defer out.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		// Unblocks the pending read.
		port.Close()
	}()

	log.WithField("port", cfg.Serial.Port).Info("capture started")
	reader := transport.NewReader(port)
	for {
		frame, err := reader.Next()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return err
		}
		if err := out.write(frame); err != nil {
			return err
		}
	}

	log.WithField("packets", out.n).
		WithField("lost", reader.Lost).
		WithField("skipped_bytes", reader.Skipped).
		Info("capture finished")
	return nil
}
