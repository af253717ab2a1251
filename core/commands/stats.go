package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/galleryfs/galleryfs/core/commands/cmdenv"

	cmds "github.com/ipfs/go-ipfs-cmds"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

type StatsOutput struct {
	Metrics []Metric
}

type Metric struct {
	Name  string
	Value float64
}

var StatsCmd = &cmds.Command{
	Helptext: cmds.HelpText{
		Tagline: "Show datastore metrics.",
		ShortDescription: `
Prints the operation counters collected by the measured datastores of this
process. The counters start at zero on every run, so the output describes the
work done while opening the repo and the filesystem.
`,
	},
	Run: func(req *cmds.Request, res cmds.ResponseEmitter, env cmds.Environment) error {
		// the node opens the datastore, which registers the collectors
		if _, err := cmdenv.GetNode(env); err != nil {
			return err
		}

		mfs, err := prometheus.DefaultGatherer.Gather()
		if err != nil {
			return err
		}
		return cmds.EmitOnce(res, &StatsOutput{Metrics: datastoreMetrics(mfs)})
	},
	Type: StatsOutput{},
	Encoders: cmds.EncoderMap{
		cmds.Text: cmds.MakeTypedEncoder(func(req *cmds.Request, w io.Writer, out *StatsOutput) error {
			tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
			for _, m := range out.Metrics {
				fmt.Fprintf(tw, "%s\t%g\n", m.Name, m.Value)
			}
			return tw.Flush()
		}),
	},
}

// datastoreMetrics keeps the counters of the measured datastores.
func datastoreMetrics(mfs []*dto.MetricFamily) []Metric {
	var out []Metric
	for _, mf := range mfs {
		name := mf.GetName()
		if !strings.Contains(name, "datastore_") || mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		var v float64
		for _, m := range mf.GetMetric() {
			v += m.GetCounter().GetValue()
		}
		out = append(out, Metric{Name: name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
