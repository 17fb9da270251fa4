package file

import (
	"bufio"
	"os"
	"strings"
)

// ReadList reads a list file of export URLs (or paths), one per line, in
// order. Blank lines and lines starting with '#' are skipped, so a list can
// carry comments and separators. salesprobe's -list flag feeds every entry
// through the probe.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
