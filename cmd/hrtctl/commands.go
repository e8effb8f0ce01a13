package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/hrtrack/hrtrack-api/internal/domain/pk"
	"github.com/hrtrack/hrtrack-api/internal/render"
	"github.com/hrtrack/hrtrack-api/internal/transfer"
	"github.com/spf13/cobra"
)

// csvHeader is the column layout of `hrtctl simulate`.
var csvHeader = []string{"time_h", "e2_pg_ml", "e2_calibrated_pg_ml", "cpa_ng_ml"}

func simulateCmd(opts *options) *cobra.Command {
	var (
		out    string
		stride int
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Print the simulated concentration curve as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if stride < 1 {
				return fmt.Errorf("--stride must be at least 1")
			}
			s, err := opts.simulate(cmd)
			if err != nil {
				return err
			}
			data, err := curveCSV(s.sim, s.cal, stride)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, data)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	cmd.Flags().IntVar(&stride, "stride", 1, "emit every n-th grid point")
	return cmd
}

// curveCSV renders the curve. The calibrated column equals the raw one when
// there are no usable labs.
func curveCSV(sim *pk.SimulationResult, cal *pk.Calibration, stride int) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	calibrated := cal.CalibratedEstrogen()
	for i := 0; i < sim.Len(); i += stride {
		record := []string{
			formatFloat(sim.TimeH[i]),
			formatFloat(sim.Estrogen[i]),
			formatFloat(calibrated[i]),
			formatFloat(sim.AntiAndrogen[i]),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func chartCmd(opts *options) *cobra.Command {
	var (
		out           string
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the concentration curve as a PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.simulate(cmd)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := render.Chart(&buf, s.sim, s.cal, render.ChartOptions{
				Width:  width,
				Height: height,
				Labs:   s.payload.LabResults,
			}); err != nil {
				return err
			}
			return writeOutput(cmd, out, buf.Bytes())
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "chart.png", "output PNG file")
	cmd.Flags().IntVar(&width, "width", 0, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "image height in pixels")
	return cmd
}

func xlsxCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Write doses, labs and the curve to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.simulate(cmd)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := transfer.WriteWorkbook(&buf, s.payload, s.sim, s.cal); err != nil {
				return err
			}
			return writeOutput(cmd, out, buf.Bytes())
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "hrtrack.xlsx", "output workbook")
	return cmd
}

func encryptCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Wrap a plain export in a passphrase-encrypted envelope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.passphrase == "" {
				return transfer.ErrEmptyPassphrase
			}
			data, err := opts.readInput(cmd)
			if err != nil {
				return err
			}
			if _, ok := transfer.ParseEnvelope(data); ok {
				return errors.New("input is already encrypted")
			}
			if !json.Valid(data) {
				return transfer.ErrMalformedPayload
			}

			env, err := transfer.Encrypt(data, opts.passphrase, opts.iterations)
			if err != nil {
				return err
			}
			encoded, err := json.Marshal(env)
			if err != nil {
				return err
			}
			opts.logger.Info("encrypted", slog.Int("plain_bytes", len(data)), slog.Int("envelope_bytes", len(encoded)))
			return writeOutput(cmd, out, encoded)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}

func decryptCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt an envelope back to the plain export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := opts.readInput(cmd)
			if err != nil {
				return err
			}
			env, ok := transfer.ParseEnvelope(data)
			if !ok {
				return errors.New("input is not an encrypted envelope")
			}
			plain, err := transfer.Decrypt(env, opts.passphrase, opts.iterations)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, plain)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}
