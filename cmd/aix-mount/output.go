package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ryanuber/columnize"

	"github.com/kriansa/aix-mount/internal/aixfs"
	"github.com/kriansa/aix-mount/internal/provider"
	"github.com/kriansa/aix-mount/internal/reconcile"
)

// formatList aligns rows of "|" separated fields, replacing blanks with a
// placeholder so the output stays awk-able.
func formatList(in []string) string {
	conf := columnize.DefaultConfig()
	conf.Empty = "-"
	return columnize.Format(in, conf)
}

// formatKV aligns "key|value" rows.
func formatKV(in []string) string {
	conf := columnize.DefaultConfig()
	conf.Empty = "<none>"
	conf.Glue = " = "
	return columnize.Format(in, conf)
}

func formatMounts(mounts []provider.Mount) string {
	rows := []string{"Mount Point|Device|Nodename|VFS|Size|Options|At Boot"}
	for _, m := range mounts {
		p := m.Properties
		rows = append(rows, fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s",
			m.Name,
			p[aixfs.PropDevice],
			p[aixfs.PropNodename],
			p[aixfs.PropFSType],
			formatSize(p[aixfs.PropSize]),
			p[aixfs.PropOptions],
			p[aixfs.PropAtBoot],
		))
	}
	return formatList(rows)
}

func formatProperties(name string, props aixfs.Properties, mounted bool) string {
	rows := []string{"name|" + name}
	for _, k := range props.Keys() {
		v := props[k]
		if k == aixfs.PropSize {
			v = formatSize(v)
		}
		rows = append(rows, fmt.Sprintf("%s|%s", k, v))
	}
	rows = append(rows, fmt.Sprintf("mounted|%t", mounted))
	return formatKV(rows)
}

// formatSize renders a size in 512-byte blocks with its byte equivalent.
func formatSize(blocks string) string {
	n, err := strconv.ParseUint(blocks, 10, 64)
	if err != nil {
		return blocks
	}
	return fmt.Sprintf("%s (%s)", blocks, humanize.IBytes(n*512))
}

func formatOutcomes(outcomes []reconcile.Outcome) string {
	rows := []string{"Mount Point|Result"}
	for _, o := range outcomes {
		result := "unchanged"
		if o.Changed() {
			parts := make([]string, len(o.Actions))
			for i, a := range o.Actions {
				parts[i] = string(a)
			}
			result = strings.Join(parts, ", ")
		}
		rows = append(rows, o.Name+"|"+result)
	}
	return formatList(rows)
}
