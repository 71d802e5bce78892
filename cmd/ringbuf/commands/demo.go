package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/ringbuf/pkg/cli"
	"github.com/haivivi/ringbuf/pkg/ringbuf"
)

// defaultTimedWrite is used for the timed phase when the profile waits
// forever.
const defaultTimedWrite = 5 * time.Second

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk through blocking and timed writes with one slow reader",
	Long: `Run a single producer against a single slow consumer.

The consumer reads one byte per interval and reports used/unused space.
The producer first writes chunks with no timeout, filling the buffer, then
switches to timed writes. Once the buffer is full a timed write returns 0
when its deadline passes: that is a timeout, not an error.

Examples:
  ringbuf demo
  ringbuf demo --capacity 20 --interval 100 --timeout 300
  ringbuf demo --drain --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProfile(cmd)
		if err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return err
		}
		writes, _ := cmd.Flags().GetInt("writes")
		timed, _ := cmd.Flags().GetInt("timed")
		drain, _ := cmd.Flags().GetBool("drain")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		lw := cli.NewLogWriter(12)
		logger := slog.New(slog.NewTextHandler(io.MultiWriter(os.Stderr, lw), &slog.HandlerOptions{
			Level: logLevel(),
		}))

		printVerbose("profile %q: capacity=%d chunk=%d timeout=%s", p.Name, p.Capacity, p.Chunk, cli.FormatTimeout(p.Timeout()))
		res, err := runDemo(ctx, demoOptions{
			Profile: p,
			Writes:  writes,
			Timed:   timed,
			Drain:   drain,
		}, logger)
		if err != nil {
			return err
		}

		if outputJSON || outputFile != "" {
			return outputResult(res)
		}
		fmt.Println(res.Frame(lw.Lines()).Render(72, 8))
		return nil
	},
}

func init() {
	addProfileFlags(demoCmd)
	demoCmd.Flags().Int("writes", 8, "chunks written with no timeout")
	demoCmd.Flags().Int("timed", 3, "chunks written with the profile timeout")
	demoCmd.Flags().Bool("drain", false, "let the consumer drain the buffer before exiting")
}

type demoOptions struct {
	Profile cli.Profile
	Writes  int
	Timed   int
	Drain   bool
}

type writeResult struct {
	Seq     int    `json:"seq" yaml:"seq"`
	Timeout string `json:"timeout" yaml:"timeout"`
	Written int    `json:"written" yaml:"written"`
	Used    int    `json:"used" yaml:"used"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

type demoResult struct {
	Profile  string        `json:"profile" yaml:"profile"`
	Writes   []writeResult `json:"writes" yaml:"writes"`
	Consumed int           `json:"consumed" yaml:"consumed"`
	Stats    ringbuf.Stats `json:"stats" yaml:"stats"`
}

// demoChunk returns n bytes of the repeating "1234567890" pattern.
func demoChunk(n int) []byte {
	const pattern = "1234567890"
	return []byte(strings.Repeat(pattern, n/len(pattern)+1)[:n])
}

func runDemo(ctx context.Context, opts demoOptions, logger *slog.Logger) (*demoResult, error) {
	p := opts.Profile
	buf, err := ringbuf.New(p.Capacity)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	// Cancellation is the only way to release a goroutine parked in the
	// buffer, so it closes the buffer.
	stopClose := context.AfterFunc(ctx, func() { buf.Close() })
	defer stopClose()

	consumed := make(chan int, 1)
	go func() {
		total := 0
		defer func() { consumed <- total }()
		var one [1]byte
		for {
			n, err := buf.ReadTimeout(one[:], ringbuf.Forever)
			if err != nil {
				if !errors.Is(err, io.EOF) {
					logger.Debug("consumer stopped", "err", err)
				}
				return
			}
			total += n
			logger.Info("ringbuffer read", "data", string(one[:n]), "used", buf.Len(), "unused", buf.Free())

			select {
			case <-ctx.Done():
				return
			case <-time.After(p.Interval()):
			}
		}
	}()

	logger.Info("ringbuffer created", "capacity", buf.Cap(), "empty", buf.Empty(), "used", buf.Len(), "unused", buf.Free())

	timedTimeout := p.Timeout()
	if timedTimeout == ringbuf.Forever {
		timedTimeout = defaultTimedWrite
	}
	chunk := demoChunk(p.Chunk)
	res := &demoResult{Profile: p.Name}

produce:
	for i := range opts.Writes + opts.Timed {
		timeout := ringbuf.Forever
		if i >= opts.Writes {
			timeout = timedTimeout
		}

		n, err := buf.WriteTimeout(chunk, timeout)
		wr := writeResult{
			Seq:     i + 1,
			Timeout: cli.FormatTimeout(timeout),
			Written: n,
			Used:    buf.Len(),
		}
		switch {
		case err == nil:
			logger.Info("put", "ret", n, "timeout", wr.Timeout, "used", wr.Used, "unused", buf.Free())
		case ringbuf.IsTimeout(err):
			wr.Error = "timeout"
			logger.Warn("put timed out", "ret", n, "timeout", wr.Timeout, "used", wr.Used)
		default:
			wr.Error = err.Error()
			res.Writes = append(res.Writes, wr)
			logger.Debug("producer stopped", "err", err)
			break produce
		}
		res.Writes = append(res.Writes, wr)
	}

	if opts.Drain {
		buf.CloseWrite()
	} else {
		// Closes the buffer and stops the consumer between reads.
		cancel()
	}
	res.Consumed = <-consumed
	res.Stats = buf.Stats()
	logger.Info("ringbuffer done", "empty", buf.Empty(), "consumed", res.Consumed)
	return res, nil
}

// Frame renders the demo outcome as a terminal panel.
func (r *demoResult) Frame(logLines []string) cli.Frame {
	styles := cli.NewStyles(cli.DefaultTheme)

	writes := make([]string, 0, len(r.Writes))
	for _, w := range r.Writes {
		line := fmt.Sprintf("#%-3d timeout=%-8s ret=%-4d used=%d", w.Seq, w.Timeout, w.Written, w.Used)
		if w.Error != "" {
			line += "  (" + w.Error + ")"
		}
		writes = append(writes, line)
	}

	s := r.Stats
	return cli.Frame{
		Styles: styles,
		Title:  "ringbuf demo",
		Status: r.Profile,
		Sections: []cli.Section{
			{Label: "Buffer", Lines: []string{
				styles.Gauge(int(s.BytesWritten-s.BytesRead), s.Capacity, 40),
				fmt.Sprintf("written=%s read=%s consumed=%d", cli.FormatBytes(int64(s.BytesWritten)), cli.FormatBytes(int64(s.BytesRead)), r.Consumed),
				fmt.Sprintf("timeouts: write=%d read=%d", s.WriteTimeouts, s.ReadTimeouts),
			}},
			{Label: "Writes", Lines: writes},
			{Label: "Log", Lines: logLines},
		},
		Help: "timeouts are soft: the producer may retry",
	}
}
