package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"github.com/haivivi/ringbuf/pkg/cli"
	"github.com/haivivi/ringbuf/pkg/ringbuf"
)

const defaultPayloadSize = 32

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run concurrent producers and consumers over one buffer",
	Long: `Benchmark a buffer shared by several producers and consumers.

Each producer sends msgpack-encoded records of (producer, seq, payload),
one record per write. Writes are all-or-nothing, so records from different
producers never interleave in the byte stream and the consumers can decode
it as one sequence. Consumers check that every producer's records arrive in
order. Timed-out writes are retried and counted.

Settings come from the active profile, then the plan file (-f), then flags.

Examples:
  ringbuf bench
  ringbuf bench --capacity 1024 --producers 8 --consumers 4 --records 50000
  ringbuf bench -f plan.yaml --table`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProfile(cmd)
		if err != nil {
			return err
		}

		opts := benchOptions{PayloadSize: defaultPayloadSize}
		if planFile, _ := cmd.Flags().GetString("file"); planFile != "" {
			plan, err := loadPlan(planFile)
			if err != nil {
				return err
			}
			p = applyProfileFlags(cmd, plan.Merge(p))
			if plan.PayloadSize > 0 {
				opts.PayloadSize = plan.PayloadSize
			}
			opts.Limit = time.Duration(plan.DurationLimitMS) * time.Millisecond
		}
		if cmd.Flags().Changed("payload") {
			opts.PayloadSize, _ = cmd.Flags().GetInt("payload")
		}
		opts.Profile = p

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		printVerbose("profile %q: capacity=%d producers=%d consumers=%d records=%d",
			p.Name, p.Capacity, p.Producers, p.Consumers, p.Records)
		report, err := runBench(ctx, opts, slog.Default())
		if err != nil {
			return err
		}
		return outputResult(report)
	},
}

func init() {
	addProfileFlags(benchCmd)
	benchCmd.Flags().StringP("file", "f", "", "bench plan file (YAML or JSON) or saved plan name")
	benchCmd.Flags().Int("payload", defaultPayloadSize, "payload bytes per record")
}

func loadPlan(name string) (*cli.Plan, error) {
	path := name
	if paths, err := cli.NewPaths(appName); err == nil {
		if found, err := paths.FindPlan(name); err == nil {
			path = found
		}
	}
	var plan cli.Plan
	if err := cli.LoadRequest(path, &plan); err != nil {
		return nil, fmt.Errorf("load plan %s: %w", name, err)
	}
	return &plan, nil
}

type benchOptions struct {
	Profile     cli.Profile
	PayloadSize int
	// Limit stops the run early; zero runs to completion.
	Limit time.Duration
}

// benchRecord is one unit of bench traffic on the byte stream.
type benchRecord struct {
	Producer int    `msgpack:"p"`
	Seq      int    `msgpack:"s"`
	Payload  []byte `msgpack:"d"`
}

type benchReport struct {
	RunID         string `json:"run_id" yaml:"run_id"`
	Profile       string `json:"profile" yaml:"profile"`
	Capacity      int    `json:"capacity" yaml:"capacity"`
	Producers     int    `json:"producers" yaml:"producers"`
	Consumers     int    `json:"consumers" yaml:"consumers"`
	RecordSize    int    `json:"record_size" yaml:"record_size"`
	Sent          int    `json:"sent" yaml:"sent"`
	Received      int    `json:"received" yaml:"received"`
	Bytes         uint64 `json:"bytes" yaml:"bytes"`
	WriteTimeouts uint64 `json:"write_timeouts" yaml:"write_timeouts"`
	DurationMS    int64  `json:"duration_ms" yaml:"duration_ms"`
	Throughput    string `json:"throughput" yaml:"throughput"`
	Complete      bool   `json:"complete" yaml:"complete"`
}

// Table implements cli.Tabler.
func (r *benchReport) Table() ([]string, [][]string) {
	d := time.Duration(r.DurationMS) * time.Millisecond
	return []string{"FIELD", "VALUE"}, [][]string{
		{"run", r.RunID},
		{"profile", r.Profile},
		{"capacity", cli.FormatBytes(int64(r.Capacity))},
		{"producers/consumers", fmt.Sprintf("%d/%d", r.Producers, r.Consumers)},
		{"record size", cli.FormatBytes(int64(r.RecordSize))},
		{"records", fmt.Sprintf("%d/%d", r.Received, r.Sent)},
		{"bytes", cli.FormatBytes(int64(r.Bytes))},
		{"write timeouts", strconv.FormatUint(r.WriteTimeouts, 10)},
		{"duration", cli.FormatDuration(d)},
		{"throughput", r.Throughput},
		{"complete", strconv.FormatBool(r.Complete)},
	}
}

// orderChecker verifies that each producer's records arrive in sequence.
type orderChecker struct {
	mu       sync.Mutex
	dec      *msgpack.Decoder
	next     []int
	received int
}

// decodeNext decodes one record from the shared stream and checks its
// order. Decoding and checking share one lock so that stream order and
// check order agree.
func (c *orderChecker) decodeNext() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var rec benchRecord
	if err := c.dec.Decode(&rec); err != nil {
		return err
	}
	if rec.Producer < 0 || rec.Producer >= len(c.next) {
		return fmt.Errorf("record %d: unknown producer %d", c.received, rec.Producer)
	}
	if rec.Seq != c.next[rec.Producer] {
		return fmt.Errorf("producer %d: got seq %d, want %d", rec.Producer, rec.Seq, c.next[rec.Producer])
	}
	c.next[rec.Producer]++
	c.received++
	return nil
}

func runBench(ctx context.Context, opts benchOptions, logger *slog.Logger) (*benchReport, error) {
	p := opts.Profile
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Records <= 0 {
		return nil, fmt.Errorf("profile %q: records must be positive", p.Name)
	}
	if opts.PayloadSize < 0 {
		return nil, fmt.Errorf("payload size must not be negative")
	}

	payload := bytes.Repeat([]byte{0xA5}, opts.PayloadSize)
	largest, err := msgpack.Marshal(&benchRecord{Producer: p.Producers, Seq: p.Records, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("encode largest record: %w", err)
	}
	if len(largest) > p.Capacity {
		return nil, fmt.Errorf("record of %d bytes does not fit in a %d byte buffer", len(largest), p.Capacity)
	}

	buf, err := ringbuf.New(p.Capacity)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	if opts.Limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Limit)
		defer cancel()
	}

	report := &benchReport{
		RunID:      uuid.NewString(),
		Profile:    p.Name,
		Capacity:   p.Capacity,
		Producers:  p.Producers,
		Consumers:  p.Consumers,
		RecordSize: len(largest),
	}
	logger.Info("bench started", "run", report.RunID, "capacity", p.Capacity,
		"producers", p.Producers, "consumers", p.Consumers, "records", p.Records)

	checker := &orderChecker{
		dec:  msgpack.NewDecoder(buf),
		next: make([]int, p.Producers),
	}

	var sent sync.WaitGroup
	var sentMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	stopClose := context.AfterFunc(gctx, func() { buf.Close() })
	defer stopClose()

	start := time.Now()
	sent.Add(p.Producers)
	for id := range p.Producers {
		g.Go(func() error {
			defer sent.Done()
			rec := benchRecord{Producer: id, Payload: payload}
			for seq := range p.Records {
				rec.Seq = seq
				data, err := msgpack.Marshal(&rec)
				if err != nil {
					return err
				}
				if err := writeRecord(buf, data, p.Timeout()); err != nil {
					return stopErr(gctx, fmt.Errorf("producer %d: %w", id, err))
				}
				sentMu.Lock()
				report.Sent++
				sentMu.Unlock()
			}
			logger.Debug("producer finished", "producer", id)
			return nil
		})
	}
	go func() {
		sent.Wait()
		buf.CloseWrite()
	}()

	for id := range p.Consumers {
		g.Go(func() error {
			for {
				err := checker.decodeNext()
				if errors.Is(err, io.EOF) {
					logger.Debug("consumer finished", "consumer", id)
					return nil
				}
				if err != nil {
					return stopErr(gctx, fmt.Errorf("consumer %d: %w", id, err))
				}
			}
		})
	}

	err = g.Wait()
	elapsed := time.Since(start)

	stats := buf.Stats()
	report.Received = checker.received
	report.Bytes = stats.BytesRead
	report.WriteTimeouts = stats.WriteTimeouts
	report.DurationMS = elapsed.Milliseconds()
	report.Throughput = cli.FormatRate(int64(stats.BytesRead), elapsed)
	report.Complete = err == nil && report.Received == p.Producers*p.Records

	if err != nil {
		return report, err
	}
	if !report.Complete {
		logger.Warn("bench stopped early", "run", report.RunID, "received", report.Received,
			"want", p.Producers*p.Records)
		return report, nil
	}
	logger.Info("bench finished", "run", report.RunID, "received", report.Received,
		"duration", cli.FormatDuration(elapsed), "throughput", report.Throughput)
	return report, nil
}

// writeRecord writes one record, retrying on timeout.
func writeRecord(buf *ringbuf.Buffer, data []byte, timeout time.Duration) error {
	for {
		_, err := buf.WriteTimeout(data, timeout)
		if !ringbuf.IsTimeout(err) {
			return err
		}
	}
}

// stopErr drops errors seen after the run was stopped through its context,
// since stopping closes the buffer under every goroutine.
func stopErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return err
}
