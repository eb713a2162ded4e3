package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/gbarzani/orgchart/modules/tree/domain/types"
)

// nodesEnvelope is the JSON response shape: a nodes array, matching the
// contract the chart's historical callers expect.
type nodesEnvelope struct {
	Nodes []types.NodeView `json:"nodes"`
}

func renderViews(w io.Writer, format string, views []types.NodeView) error {
	if views == nil {
		views = []types.NodeView{}
	}
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(nodesEnvelope{Nodes: views})
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tNAME\tCHILDREN")
	for _, v := range views {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", v.NodeID, v.Name, v.ChildrenCount)
	}
	return tw.Flush()
}
