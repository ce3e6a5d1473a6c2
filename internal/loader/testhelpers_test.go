package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFile writes content to name inside a temp dir and returns the path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const hydroFixture = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": 1, "geometry": {"type": "Point", "coordinates": [34.0, -13.5]},
     "properties": {"Scheme_Nam": "Kapichira", "Status": "Operational"}},
    {"type": "Feature", "id": 2, "geometry": {"type": "Point", "coordinates": [34.1, -13.6]},
     "properties": {"Scheme_Nam": "Mpatamanga", "Status": "planned"}},
    {"type": "Feature", "id": "three", "geometry": {"type": "Point", "coordinates": [35.0, -14.0]},
     "properties": {"Scheme_Nam": "Fufu", "Status": "PROPOSED"}}
  ]
}`
