package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kriansa/aix-mount/internal/aixfs"
	"github.com/kriansa/aix-mount/internal/reconcile"
)

const sample = `
[[mount]]
name    = "/mnt/data"
device  = "nfsserver:/export/data"
fstype  = "nfs"
options = "bg,hard,intr"
atboot  = true

[[mount]]
name   = "/u01"
ensure = "present"
fstype = "jfs2"
size   = 1000000
volume = "datavg"
dump   = 0
pass   = 2

[[mount]]
name   = "/old"
ensure = "absent"
force  = "Yes, I am sure"
`

func TestParse(t *testing.T) {
	entries, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, reconcile.Entry{
		Name:   "/mnt/data",
		Ensure: reconcile.EnsureMounted,
		Properties: aixfs.Properties{
			aixfs.PropDevice:  "nfsserver:/export/data",
			aixfs.PropFSType:  "nfs",
			aixfs.PropOptions: "bg,hard,intr",
			aixfs.PropAtBoot:  "true",
		},
	}, entries[0])

	assert.Equal(t, reconcile.EnsurePresent, entries[1].Ensure)
	assert.Equal(t, "1000000", entries[1].Properties[aixfs.PropSize])
	assert.Equal(t, "0", entries[1].Properties[aixfs.PropDump])
	assert.Equal(t, "2", entries[1].Properties[aixfs.PropPass])

	assert.Equal(t, reconcile.EnsureAbsent, entries[2].Ensure)
	assert.Equal(t, "Yes, I am sure", entries[2].Force)
	assert.Empty(t, entries[2].Properties)
}

func TestParseSizeString(t *testing.T) {
	entries, err := Parse([]byte("[[mount]]\nname = \"/a\"\nsize = \"2G\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "2G", entries[0].Properties[aixfs.PropSize])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[[mount]\nname = "},
		{"unknown key", "[[mount]]\nname = \"/a\"\nquota = true\n"},
		{"relative name", "[[mount]]\nname = \"data\"\n"},
		{"bad ensure", "[[mount]]\nname = \"/a\"\nensure = \"gone\"\n"},
		{"empty options", "[[mount]]\nname = \"/a\"\noptions = \"\"\n"},
		{"bad size type", "[[mount]]\nname = \"/a\"\nsize = 1.5\n"},
		{"duplicate", "[[mount]]\nname = \"/a\"\n[[mount]]\nname = \"/a\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			assert.Error(t, err)
		})
	}
}

func TestParseEmptyOptionsIsConfigurationError(t *testing.T) {
	_, err := Parse([]byte("[[mount]]\nname = \"/a\"\noptions = \"\"\n"))
	assert.True(t, errors.Is(err, aixfs.ErrConfiguration))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mounts.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	entries, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
