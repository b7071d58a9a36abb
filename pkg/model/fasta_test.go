package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchSeqIDs(t *testing.T) {

	content := ">lcl|NZ_CP012345.1 Staphylococcus aureus chromosome\n" +
		"ATGCATGC\n" +
		"GGCC\n" +
		">WP_000733283.1 toxin MazF\n" +
		"MSEQ\n" +
		">gi|12345|ref|NC_007795.1|\n" +
		"ATAT\n"

	fpath := filepath.Join(t.TempDir(), "test.fasta")
	require.NoError(t, os.WriteFile(fpath, []byte(content), 0o644))

	seqids, err := FetchSeqIDs(fpath)
	require.NoError(t, err)
	require.Equal(t, []string{"NZ_CP012345.1", "WP_000733283.1", ""}, seqids)
}

func TestFetchSeqIDsNoSpaceHeader(t *testing.T) {

	fpath := filepath.Join(t.TempDir(), "plain.fasta")
	require.NoError(t, os.WriteFile(fpath, []byte(">asm|GCF_000013425.1\nATG\n"), 0o644))

	seqids, err := FetchSeqIDs(fpath)
	require.NoError(t, err)
	require.Equal(t, []string{"GCF_000013425.1"}, seqids)
}

func TestFetchSeqIDsMissingFile(t *testing.T) {

	_, err := FetchSeqIDs(filepath.Join(t.TempDir(), "nope.fasta"))
	require.Error(t, err)
}
