package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, dir string) {
	t.Helper()
	content := "blocks:\n  - id: custom-banner\n    name: Custom Banner\n    category: block\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(content), 0o644))
}
