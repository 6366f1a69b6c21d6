package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"sentencer/internal/sentencing/handler"
	"sentencer/pkg/requestcontext"
)

var (
	computeInput string
	computeBatch bool
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute sentences from JSON case input",
	Long: `Compute a sentence for one case, or a list of cases with --batch, and
print the result as JSON.

Input is read from --input or stdin. A batch is {"cases":[...]}, the body
of POST /sentencing/compute/batch; a bare array of cases is also accepted.

Examples:
  echo '{"category":"theft","jurisdiction":"深圳","amount":50000}' | sentencer compute
  sentencer compute --batch --input cases.json`,
	RunE: runCompute,
}

func init() {
	rootCmd.AddCommand(computeCmd)
	computeCmd.Flags().StringVarP(&computeInput, "input", "i", "", "Input file (default: stdin)")
	computeCmd.Flags().BoolVar(&computeBatch, "batch", false, `Input is a batch: {"cases":[...]}`)
}

func runCompute(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	var r io.Reader = cmd.InOrStdin()
	if computeInput != "" {
		f, err := os.Open(computeInput)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	ctx := requestcontext.WithRequestID(cmd.Context(), uuid.NewString())
	ctx = requestcontext.WithTime(ctx, time.Now())

	a, err := buildApp(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	var result any
	if computeBatch {
		req, err := decodeBatch(r)
		if err != nil {
			return err
		}
		items, err := a.service.ComputeBatch(ctx, req.CaseInputs())
		if err != nil {
			return err
		}
		result = handler.FromBatch(items)
	} else {
		var req handler.ComputeRequest
		if err := decodeStrict(r, &req); err != nil {
			return fmt.Errorf("decode case: %w", err)
		}
		if err := req.Validate(); err != nil {
			return err
		}
		rec, err := a.service.Compute(ctx, req.CaseInput())
		if err != nil {
			return err
		}
		result = handler.FromComputation(rec)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// decodeBatch reads {"cases":[...]} or a bare array of cases.
func decodeBatch(r io.Reader) (*handler.BatchRequest, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read cases: %w", err)
	}
	req := &handler.BatchRequest{}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		err = decodeStrict(bytes.NewReader(trimmed), &req.Cases)
	} else {
		err = decodeStrict(bytes.NewReader(raw), req)
	}
	if err != nil {
		return nil, fmt.Errorf("decode cases: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
