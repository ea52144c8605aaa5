// internal/words/words.go
//
// Embedded default word corpus, grouped by topic.
//
// Responsibilities:
//   - Parse the embedded topics.txt into a topic → words map.
//   - Serve as seed data for the words table on first startup, so the
//     server is playable without any external word files.
//
// The database is the authoritative word source at runtime
// (store.SQLiteWords); this package only provides the initial corpus.
//
// Constraints:
//   - Topics and words are normalized to uppercase.
//   - Words within a topic are deduplicated; order is preserved.

package words

import (
	"bufio"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"
)

//go:embed topics.txt
var embeddedTopics string

var (
	parseOnce sync.Once
	corpus    map[string][]string
	parseErr  error
)

// Corpus returns the embedded topic → words map, parsing it once.
// Returns an error if the embedded file is malformed or empty.
func Corpus() (map[string][]string, error) {
	parseOnce.Do(func() {
		corpus, parseErr = parse(embeddedTopics)
	})
	return corpus, parseErr
}

// parse reads "TOPIC: word word ..." lines into a map.
func parse(raw string) (map[string][]string, error) {
	out := map[string][]string{}
	sc := bufio.NewScanner(strings.NewReader(raw))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		topic, rest, ok := strings.Cut(text, ":")
		if !ok {
			return nil, fmt.Errorf("topics.txt line %d: missing ':' separator", line)
		}
		topic = strings.ToUpper(strings.TrimSpace(topic))
		if topic == "" {
			return nil, fmt.Errorf("topics.txt line %d: empty topic", line)
		}
		ws := lo.Uniq(lo.Map(strings.Fields(rest), func(w string, _ int) string {
			return strings.ToUpper(w)
		}))
		if len(ws) == 0 {
			return nil, fmt.Errorf("topics.txt line %d: topic %s has no words", line, topic)
		}
		out[topic] = append(out[topic], ws...)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("topics.txt: no topics defined")
	}
	return out, nil
}
