package mount

import (
	"bufio"
	"strings"
	"unicode"
)

// ParseTable parses the output of a bare `mount` on AIX:
//
//	  node       mounted        mounted over    vfs       date        options
//	-------- ---------------  ---------------  ------ ------------ ---------------
//	         /dev/hd4         /                jfs2   Jul 05 10:00 rw,log=/dev/hd8
//	nfsserv  /export/data     /mnt/data        nfs3   Jul 05 10:01 bg,hard,intr
//
// Local rows leave the node column blank. Lines that do not look like rows
// are skipped.
func ParseTable(output string) []Entry {
	var entries []Entry

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		fields := strings.Fields(line)
		if len(fields) == 0 || isHeader(fields) {
			continue
		}

		// remote rows carry the node as an extra leading column
		var e Entry
		if !unicode.IsSpace(rune(line[0])) {
			e.Node = fields[0]
			fields = fields[1:]
		}
		if len(fields) < 3 {
			continue
		}
		e.Device, e.MountPoint, e.VFS = fields[0], fields[1], fields[2]
		// vfs is followed by a three-column date, then the options
		if len(fields) >= 7 {
			e.Options = fields[6]
		}

		entries = append(entries, e)
	}

	return entries
}

func isHeader(fields []string) bool {
	return fields[0] == "node" || strings.HasPrefix(fields[0], "---")
}
