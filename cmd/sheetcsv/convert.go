package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/processor"
	"golang.org/x/sync/errgroup"
)

// stdinName selects standard input as the workbook source.
const stdinName = "-"

// converter runs inputs through the processor and writes the results.
type converter struct {
	proc        *processor.Processor
	outDir      string
	originalDir string
	logger      *slog.Logger
	stdin       io.Reader
}

// convertAll converts inputs with at most jobs conversions in flight. Every
// input is attempted; the returned error counts the failures.
func (c *converter) convertAll(ctx context.Context, inputs []string, jobs int) error {
	var g errgroup.Group
	g.SetLimit(jobs)

	var failed atomic.Int32
	for _, input := range inputs {
		input := input
		g.Go(func() error {
			if err := c.convertInput(ctx, input); err != nil {
				c.logger.Error("conversion failed", "input", input, "error", err)
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d inputs failed", n, len(inputs))
	}
	return nil
}

// convertInput converts one file, or standard input for "-".
func (c *converter) convertInput(ctx context.Context, input string) error {
	content, sourceName, err := c.read(input)
	if err != nil {
		return err
	}

	in := processor.FlowFile{Content: content, Attributes: map[string]string{}}
	if sourceName != "" {
		in.Attributes[processor.AttrFileName] = sourceName
	}
	out, err := c.proc.OnTrigger(ctx, in)
	if err != nil {
		return err
	}

	for _, ff := range out.Success {
		name := ff.Attr(processor.AttrFileName)
		if err := writeFile(c.outDir, name, ff.Content); err != nil {
			return err
		}
		c.logger.Debug("wrote sheet", "file", name, "rows", ff.Attr(processor.AttrRowCount))
	}

	if c.originalDir != "" {
		name := sourceName
		if name == "" {
			name = uuid.NewString()
		}
		if err := writeFile(c.originalDir, name, out.Original.Content); err != nil {
			return err
		}
	}

	if out.Failure != nil {
		return errors.New(out.Failure.Attr(processor.AttrError))
	}
	return nil
}

func (c *converter) read(input string) ([]byte, string, error) {
	if input == stdinName {
		r := c.stdin
		if r == nil {
			r = os.Stdin
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "", nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return nil, "", err
	}
	return data, filepath.Base(input), nil
}

func writeFile(dir, name string, content []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
