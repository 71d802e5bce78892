package commands

import (
	"github.com/spf13/cobra"

	"github.com/haivivi/ringbuf/pkg/cli"
)

// addProfileFlags registers the flags that override profile fields.
func addProfileFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("capacity", 0, "buffer capacity in bytes")
	f.Int("chunk", 0, "bytes per producer write")
	f.Int("timeout", 0, "per-call timeout in milliseconds (0 waits forever)")
	f.Int("interval", 0, "pause between consumer reads in milliseconds")
	f.Int("producers", 0, "number of producer goroutines")
	f.Int("consumers", 0, "number of consumer goroutines")
	f.Int("records", 0, "records written by each producer")
}

// applyProfileFlags copies every flag the user set onto p.
func applyProfileFlags(cmd *cobra.Command, p cli.Profile) cli.Profile {
	f := cmd.Flags()
	override := func(name string, dst *int) {
		if f.Lookup(name) == nil || !f.Changed(name) {
			return
		}
		if v, err := f.GetInt(name); err == nil {
			*dst = v
		}
	}
	override("capacity", &p.Capacity)
	override("chunk", &p.Chunk)
	override("timeout", &p.TimeoutMS)
	override("interval", &p.IntervalMS)
	override("producers", &p.Producers)
	override("consumers", &p.Consumers)
	override("records", &p.Records)
	return p
}
