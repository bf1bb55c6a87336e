package typegen

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// CheckResult holds the result of an up-to-date check
type CheckResult struct {
	UpToDate    bool
	Differences []string // files that differ or are missing
}

// CompareFiles compares freshly rendered files with those already in dir.
// Header lines starting with metadataPrefix (generator version stamps) are
// ignored so a rebuilt binary does not report every file as stale.
func CompareFiles(dir string, files []File, metadataPrefix string) *CheckResult {
	var diffs []string

	for _, f := range files {
		existing, err := os.ReadFile(filepath.Join(dir, f.Name))
		if err != nil {
			diffs = append(diffs, f.Name+" (missing)")
			continue
		}
		if filterMetadataLines(f.Content, metadataPrefix) != filterMetadataLines(string(existing), metadataPrefix) {
			diffs = append(diffs, f.Name)
		}
	}

	return &CheckResult{
		UpToDate:    len(diffs) == 0,
		Differences: diffs,
	}
}

// filterMetadataLines drops lines starting with prefix.
// Returns empty string if the scanner fails, which makes the comparison fail.
func filterMetadataLines(content, prefix string) string {
	if prefix == "" {
		return content
	}

	var result strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			continue
		}
		result.WriteString(line)
		result.WriteString("\n")
	}

	if err := scanner.Err(); err != nil {
		return ""
	}
	return result.String()
}
