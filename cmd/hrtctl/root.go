package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/domain/pk"
	"github.com/hrtrack/hrtrack-api/internal/platform/logger"
	"github.com/hrtrack/hrtrack-api/internal/transfer"
	"github.com/spf13/cobra"
)

// PassphraseEnv is read when --passphrase is not given.
const PassphraseEnv = "HRTCTL_PASSPHRASE"

// options holds the persistent flags shared by every command.
type options struct {
	in         string
	passphrase string
	iterations int
	weightKG   float64
	now        string
	logLevel   string

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "hrtctl",
		Short:        "Offline tools for hrtrack export files",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.passphrase == "" {
				opts.passphrase = os.Getenv(PassphraseEnv)
			}
			log, err := logger.New(logger.LoggerConfig{
				Level:  opts.logLevel,
				Output: cmd.ErrOrStderr(),
				Text:   true,
			})
			if err != nil {
				return err
			}
			opts.logger = log.With(slog.String("component", "hrtctl"))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.in, "in", "i", "-", "input file, - for stdin")
	flags.StringVarP(&opts.passphrase, "passphrase", "p", "", "passphrase for encrypted files (or $"+PassphraseEnv+")")
	flags.IntVar(&opts.iterations, "iterations", transfer.DefaultIterations, "PBKDF2 iterations")
	flags.Float64Var(&opts.weightKG, "weight", 70, "body weight in kg when the file has none")
	flags.StringVar(&opts.now, "now", "", "evaluation time as RFC 3339 (default current time)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(
		simulateCmd(opts),
		chartCmd(opts),
		xlsxCmd(opts),
		encryptCmd(opts),
		decryptCmd(opts),
		backupCmd(opts),
	)
	return root
}

func (o *options) readInput(cmd *cobra.Command) ([]byte, error) {
	if o.in == "-" || o.in == "" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(o.in)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

// writeOutput writes data to path, or to the command's stdout for "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" || path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (o *options) nowHours() (float64, error) {
	if o.now == "" {
		return domain.TimeToHours(time.Now()), nil
	}
	t, err := time.Parse(time.RFC3339, o.now)
	if err != nil {
		return 0, fmt.Errorf("invalid --now: %w", err)
	}
	return domain.TimeToHours(t), nil
}

// loadPayload reads and sanitizes the input file.
func (o *options) loadPayload(cmd *cobra.Command, params *pk.Params) (*transfer.ImportResult, error) {
	data, err := o.readInput(cmd)
	if err != nil {
		return nil, err
	}
	result, err := transfer.NewSanitizer(params, o.iterations).Import(data, o.passphrase, uuid.New())
	if err != nil {
		return nil, err
	}
	o.logger.Info("input loaded",
		slog.Bool("encrypted", result.Encrypted),
		slog.Int("events", result.AcceptedEvents),
		slog.Int("rejected_events", result.RejectedEvents),
		slog.Int("labs", result.AcceptedLabs),
		slog.Int("rejected_labs", result.RejectedLabs))
	return result, nil
}

func (o *options) weightFor(p *transfer.Payload) float64 {
	if p.WeightKG != nil {
		return *p.WeightKG
	}
	return o.weightKG
}

// simulation runs the model over the sanitized input and calibrates it.
type simulation struct {
	payload *transfer.Payload
	sim     *pk.SimulationResult
	cal     *pk.Calibration
}

func (o *options) simulate(cmd *cobra.Command) (*simulation, error) {
	model := pk.NewDefaultService()

	result, err := o.loadPayload(cmd, model.Params())
	if err != nil {
		return nil, err
	}
	nowH, err := o.nowHours()
	if err != nil {
		return nil, err
	}

	sim, err := model.Simulate(result.Payload.Events, o.weightFor(&result.Payload), nowH)
	if err != nil {
		return nil, err
	}
	return &simulation{
		payload: &result.Payload,
		sim:     sim,
		cal:     model.Calibrate(sim, result.Payload.LabResults),
	}, nil
}
