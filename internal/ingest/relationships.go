package ingest

import (
	"fmt"
	"strings"

	"github.com/iko-commits/gantt-chart-pro/internal/graph"
)

// Header aliases for relationship table columns.
var (
	predFields = []string{"PredID", "Predecessor", "Pred", "From", "Pred ID", "Predecessor ID"}
	succFields = []string{"SuccID", "Successor", "Succ", "To", "Succ ID", "Successor ID"}
	typeFields = []string{"RelType", "Type", "Rel", "Relationship", "Link Type"}
	lagFields  = []string{"Lag_d", "Lag", "Lag Days", "LagDays"}
)

// Relationship sources reported in Extraction.Source.
const (
	SourceInline = "inline"
	SourceNone   = "none"
)

// Extraction is the edge list found in a workbook and where it came from:
// "table:<sheet>", "inline", or "none".
type Extraction struct {
	Edges  []graph.Edge
	Source string
}

// Empty reports whether no relationships were found.
func (e Extraction) Empty() bool {
	return len(e.Edges) == 0
}

// ExtractRelationships reads edges from a dedicated relationship sheet when
// one exists and yields rows, otherwise from the predecessor column of the
// activity rows.
func ExtractRelationships(wb Workbook, activityRows []Row, opts Options) (Extraction, error) {
	opts = opts.withDefaults()

	if sheet, ok := FindSheet(wb, opts.RelationshipSheets); ok {
		rows, err := wb.Rows(sheet)
		if err != nil {
			return Extraction{}, fmt.Errorf("read relationships: %w", err)
		}
		if edges := TableEdges(rows); len(edges) > 0 {
			return Extraction{Edges: edges, Source: "table:" + sheet}, nil
		}
	}

	if edges := InlineEdges(activityRows, opts.PredecessorFields); len(edges) > 0 {
		return Extraction{Edges: edges, Source: SourceInline}, nil
	}
	return Extraction{Source: SourceNone}, nil
}

// TableEdges converts relationship rows into edges. Rows whose predecessor or
// successor is not a whole number are discarded. Unknown types default to FS
// and a missing lag to 0.
func TableEdges(rows []Row) []graph.Edge {
	var edges []graph.Edge
	for _, row := range rows {
		rawPred, ok := row.Lookup(predFields...)
		if !ok {
			continue
		}
		rawSucc, ok := row.Lookup(succFields...)
		if !ok {
			continue
		}
		pred, okPred := toID(rawPred)
		succ, okSucc := toID(rawSucc)
		if !okPred || !okSucc {
			continue
		}

		e := graph.Edge{PredID: pred, SuccID: succ, Type: graph.FS}
		if v, ok := row.Lookup(typeFields...); ok {
			e.Type, _ = graph.ParseRelType(toString(v))
		}
		if v, ok := row.Lookup(lagFields...); ok {
			if lag, ok := toFloat(v); ok {
				e.Lag = lag
			}
		}
		edges = append(edges, e)
	}
	return edges
}

// InlineEdges parses the predecessor token list of every activity row. The
// field is looked up under the given aliases, then under any header
// containing "pred".
func InlineEdges(rows []Row, fields []string) []graph.Edge {
	var edges []graph.Edge
	for _, row := range rows {
		rawID, ok := row.Lookup(idFields...)
		if !ok {
			continue
		}
		id, ok := toID(rawID)
		if !ok {
			continue
		}

		v, ok := row.Lookup(fields...)
		if !ok {
			v, ok = row.LookupFunc(func(h string) bool { return strings.Contains(h, "pred") })
		}
		if !ok {
			continue
		}
		edges = append(edges, graph.ParseTokens(toString(v), id)...)
	}
	return edges
}
