package lsfs

import (
	"bufio"
	"fmt"
	"strings"
)

// Parse parses the colon-delimited output of `lsfs -c` and returns one
// record per stanza. Example:
//
//	#MountPoint:Device:Vfs:Nodename:Type:Size:Options:AutoMount:Acct
//	/:/dev/hd4:jfs2::bootfs:1048576:rw:yes:no
//	/mnt/data:/export/data:nfs:nfsserver:::bg,hard,intr:yes:no
func Parse(output string) ([]Record, error) {
	var (
		header  []string
		records []Record
	)

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if header == nil {
			if !strings.HasPrefix(line, "#") {
				return nil, fmt.Errorf("missing lsfs header, got %q", line)
			}
			header = parseHeader(line)
			continue
		}

		// lsfs repeats the header when listing several volume groups
		if strings.HasPrefix(line, "#") {
			continue
		}

		records = append(records, parseLine(header, line))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lsfs output: %w", err)
	}

	return records, nil
}

func parseHeader(line string) []string {
	fields := strings.Split(strings.TrimPrefix(line, "#"), ":")
	for i, f := range fields {
		fields[i] = strings.ToLower(strings.TrimSpace(f))
	}
	return fields
}

// parseLine splits a record into at most len(header) fields. Missing
// trailing fields are empty; surplus colons stay in the last field.
func parseLine(header []string, line string) Record {
	values := strings.SplitN(line, ":", len(header))
	rec := make(Record, len(header))
	for i, key := range header {
		if i < len(values) {
			rec[key] = values[i]
		} else {
			rec[key] = ""
		}
	}
	return rec
}
