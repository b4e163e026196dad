// Package docs serves the guides embedded in the binary for `upi docs`.
// Topics are listed in workflow order: applying first, because that is
// why most people install the tool, then blogging, then admin review.
package docs

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed content/*.md
var contentFS embed.FS

var order = []string{"applying", "blogging", "admin"}

// aliases map the words people actually type to the guide that covers them.
var aliases = map[string]string{
	"apply":       "applying",
	"application": "applying",
	"wizard":      "applying",
	"blog":        "blogging",
	"blogs":       "blogging",
	"write":       "blogging",
	"review":      "admin",
	"reviewing":   "admin",
}

// Topic is one embedded guide. Title comes from the guide's heading.
type Topic struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Topics lists the embedded guides in workflow order.
func Topics() []Topic {
	topics := make([]Topic, 0, len(order))
	for _, name := range order {
		body, ok := Get(name)
		if !ok {
			continue
		}
		topics = append(topics, Topic{Name: name, Title: heading(body)})
	}
	return topics
}

// Get returns the guide for a topic or one of its aliases.
func Get(topic string) (string, bool) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		return "", false
	}
	if canonical, ok := aliases[topic]; ok {
		topic = canonical
	}
	b, err := contentFS.ReadFile("content/" + topic + ".md")
	if err != nil {
		return "", false
	}
	return string(b), true
}

// heading extracts the first markdown H1, or "" when the guide has none.
func heading(body string) string {
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return ""
}
