package model

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// FetchSeqIDs scans a FASTA file and returns the IDs of all sequence
// records in it, in file order. The ID is the token between the record
// separator and the first space of the header; when that token is
// pipe-delimited (e.g. "lcl|NZ_CP012345.1") only the final segment is kept.
func FetchSeqIDs(fpath string) ([]string, error) {
	f, err := os.Open(fpath)
	if err != nil {
		return nil, fmt.Errorf("open fasta: %w", err)
	}
	defer f.Close()

	var seqids []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, ">") {
			continue
		}
		seqid := line[1:]
		if i := strings.IndexByte(seqid, ' '); i >= 0 {
			seqid = seqid[:i]
		}
		if i := strings.LastIndexByte(seqid, '|'); i >= 0 {
			seqid = seqid[i+1:]
		}
		seqids = append(seqids, seqid)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan fasta: %w", err)
	}

	return seqids, nil
}
