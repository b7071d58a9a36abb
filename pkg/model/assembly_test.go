package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHierarchyRendering(t *testing.T) {

	locus := &Locus{
		Name: "mazEF", Acc: "NZ_CP012345.1", Strand: 1,
		Genes: []*Gene{
			{Name: "mazE", Start: 100, End: 340, QCovs: 100.0, PPos: 99.1},
			{Name: "mazF", Start: 350, End: 680, QCovs: 98.0, PPos: 97.5},
		},
	}
	require.Equal(t, "mazE(99.1)/mazF(97.5)", locus.String())

	asm := &Assembly{
		AsmID: "GCF_000013425.1",
		TAs:   []*Locus{locus},
		Drugs: []*Locus{{Name: "blaZ", Genes: []*Gene{{Name: "blaZ", PPos: 100}}}},
	}
	require.Equal(t, "mazE(99.1)/mazF(97.5) blaZ(100)", asm.String())
}

func TestAggregateCounts(t *testing.T) {

	mazEF := &Locus{Name: "mazEF"}
	relBE := &Locus{Name: "relBE"}
	blaZ := &Locus{Name: "blaZ"}
	tetK := &Locus{Name: "tetK"}

	assemblies := []*Assembly{
		{AsmID: "asm1", TAs: []*Locus{mazEF}, Drugs: []*Locus{blaZ}},
		{AsmID: "asm2", TAs: []*Locus{mazEF, relBE}, Drugs: []*Locus{blaZ, tetK}},
		{AsmID: "asm3", TAs: []*Locus{relBE}},
	}

	pairs, taCount, drugCount := AggregateCounts(assemblies)

	require.Equal(t, map[string]int{"mazEF": 2, "relBE": 2}, taCount)
	require.Equal(t, map[string]int{"blaZ": 2, "tetK": 1}, drugCount)

	// Full grid: every TA against every drug, co-occurring or not.
	require.Len(t, pairs, 4)

	byKey := make(map[string]int)
	for _, p := range pairs {
		require.Equal(t, 3, p.Population)
		byKey[p.TA+"/"+p.Drug] = p.JointCount
	}
	require.Equal(t, 2, byKey["mazEF/blaZ"])
	require.Equal(t, 1, byKey["mazEF/tetK"])
	require.Equal(t, 1, byKey["relBE/blaZ"])
	require.Equal(t, 1, byKey["relBE/tetK"])
}

// A locus name occurring twice in one assembly still counts once.
func TestAggregateCountsDeduplicatesWithinAssembly(t *testing.T) {

	assemblies := []*Assembly{
		{
			AsmID: "asm1",
			TAs:   []*Locus{{Name: "mazEF"}, {Name: "mazEF"}},
			Drugs: []*Locus{{Name: "blaZ"}},
		},
	}

	pairs, taCount, _ := AggregateCounts(assemblies)
	require.Equal(t, 1, taCount["mazEF"])
	require.Len(t, pairs, 1)
	require.Equal(t, 1, pairs[0].JointCount)
}

func TestScoreRows(t *testing.T) {

	assemblies := make([]*Assembly, 0, 40)
	for i := 0; i < 40; i++ {
		asm := &Assembly{AsmID: "asm"}
		if i < 25 {
			asm.TAs = []*Locus{{Name: "mazEF"}}
		}
		if i < 20 {
			asm.Drugs = []*Locus{{Name: "blaZ"}}
		}
		assemblies = append(assemblies, asm)
	}

	pairs, _, _ := AggregateCounts(assemblies)
	rows, err := ScoreRows(pairs)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// 20 of 25 TA carriers carry blaZ against a background rate of 0.5.
	require.InDelta(t, 1.6, rows[0].Score.Ratio, 1e-12)
	require.GreaterOrEqual(t, rows[0].PVal10, 0.0)
	require.LessOrEqual(t, rows[0].PVal10, 1.0)
}
