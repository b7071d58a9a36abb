// Record types for the gene/locus/assembly hierarchy and the count
// aggregation that turns a population of assemblies into scored pairs.

package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/taslab/cooctable/pkg/stats"
)

// Gene is one translated BLAST hit inside a locus.
type Gene struct {
	Name  string  `json:"name"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	QCovs float64 `json:"qcovs"` // query coverage
	PPos  float64 `json:"ppos"`  // sequence similarity
}

func (g *Gene) String() string {
	return fmt.Sprintf("%s(%g)", g.Name, g.PPos)
}

// Locus groups the genes of one TA system or resistance determinant on a
// source sequence.
type Locus struct {
	Name   string  `json:"name"`
	Acc    string  `json:"acc"`
	Strand int     `json:"strand"`
	Genes  []*Gene `json:"genes"`
}

func (l *Locus) String() string {
	parts := make([]string, len(l.Genes))
	for i, g := range l.Genes {
		parts[i] = g.String()
	}
	return strings.Join(parts, "/")
}

// Assembly is one genome with the TA systems and drug resistance
// determinants found in it.
type Assembly struct {
	AsmID string   `json:"asmid"`
	TAs   []*Locus `json:"tas"`
	Drugs []*Locus `json:"drugs"`
}

func (a *Assembly) String() string {
	parts := make([]string, 0, len(a.TAs)+len(a.Drugs))
	for _, l := range a.TAs {
		parts = append(parts, l.String())
	}
	for _, l := range a.Drugs {
		parts = append(parts, l.String())
	}
	return strings.Join(parts, " ")
}

// AggregateCounts derives the full pair-count grid from a population of
// assemblies: per-assembly presence counts for every TA system and
// determinant, and joint counts for every combination of the two. Each
// locus name counts at most once per assembly. Every observed (TA, drug)
// combination appears in the result, including ones that never co-occur.
func AggregateCounts(assemblies []*Assembly) (pairs []stats.Pair, taCount, drugCount map[string]int) {
	taCount = make(map[string]int)
	drugCount = make(map[string]int)
	joint := make(map[string]map[string]int)

	for _, asm := range assemblies {
		tas := lociNames(asm.TAs)
		drugs := lociNames(asm.Drugs)

		for ta := range tas {
			taCount[ta]++
		}
		for drug := range drugs {
			drugCount[drug]++
		}
		for ta := range tas {
			if joint[ta] == nil {
				joint[ta] = make(map[string]int)
			}
			for drug := range drugs {
				joint[ta][drug]++
			}
		}
	}

	tot := len(assemblies)
	for _, ta := range sortedKeys(taCount) {
		for _, drug := range sortedKeys(drugCount) {
			pairs = append(pairs, stats.Pair{
				TA:         ta,
				Drug:       drug,
				JointCount: joint[ta][drug],
				TACount:    taCount[ta],
				DrugCount:  drugCount[drug],
				Population: tot,
			})
		}
	}
	return pairs, taCount, drugCount
}

// ScoreRows runs the per-pair stage of the pipeline: enrichment score and
// minimum-count screen for every pair. Each pair is independent, no state
// is shared between them.
func ScoreRows(pairs []stats.Pair) ([]Row, error) {
	rows := make([]Row, 0, len(pairs))
	for _, p := range pairs {
		score, err := stats.Score(p)
		if err != nil {
			return nil, fmt.Errorf("scoring failed: %w", err)
		}
		screen, err := stats.ScreenProb(p.TACount, p.DrugCount, p.Population)
		if err != nil {
			return nil, fmt.Errorf("screen failed for %s: %w", p, err)
		}
		rows = append(rows, Row{Pair: p, Score: score, PVal10: screen})
	}
	return rows, nil
}

func lociNames(loci []*Locus) map[string]bool {
	names := make(map[string]bool, len(loci))
	for _, l := range loci {
		names[l.Name] = true
	}
	return names
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
