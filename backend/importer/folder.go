package importer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DefaultTopic holds lessons placed directly inside a module directory.
const DefaultTopic = "Общо"

// unordered sorts after every numbered entry.
const unordered = 999

var (
	dirPrefix    = regexp.MustCompile(`^(?:Модул|Module|Тема|Topic)\s+\d+\s*[-–—]\s*`)
	firstNumber  = regexp.MustCompile(`\d+`)
	heading      = regexp.MustCompile(`(?m)^#[ \t]+(.+)$`)
	numberPrefix = regexp.MustCompile(`^\d+-`)
)

func cleanName(name string) string {
	if s := strings.TrimSpace(dirPrefix.ReplaceAllString(name, "")); s != "" {
		return s
	}
	return name
}

func sortHint(name string) int {
	if m := firstNumber.FindString(name); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return unordered
}

func lessonTitle(content, fileName string) string {
	if m := heading.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	name := strings.TrimSuffix(fileName, ".md")
	name = numberPrefix.ReplaceAllString(name, "")
	return strings.NewReplacer("-", " ", "_", " ").Replace(name)
}

type scannedTopic struct {
	name  string
	topic Topic
}

type scannedModule struct {
	name   string
	module Module
	topics map[string]*scannedTopic
}

// ScanFolder builds an import payload from dir. Layout is
// <module>/[<topic>/]<lesson>.md; readme.md files and files at the top level
// are ignored.
func ScanFolder(dir string) (*Payload, error) {
	modules := map[string]*scannedModule{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") || strings.EqualFold(d.Name(), "readme.md") {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 2 {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}

		modDir := parts[0]
		mod, ok := modules[modDir]
		if !ok {
			mod = &scannedModule{
				name:   modDir,
				module: Module{Title: cleanName(modDir), SortOrder: sortHint(modDir)},
				topics: map[string]*scannedTopic{},
			}
			modules[modDir] = mod
		}

		topicKey, topicTitle, topicOrder := "", DefaultTopic, 0
		if len(parts) > 2 {
			topicKey = parts[1]
			topicTitle, topicOrder = cleanName(parts[1]), sortHint(parts[1])
		}
		topic, ok := mod.topics[topicKey]
		if !ok {
			topic = &scannedTopic{name: topicKey, topic: Topic{Title: topicTitle, SortOrder: topicOrder}}
			mod.topics[topicKey] = topic
		}

		fileName := parts[len(parts)-1]
		topic.topic.Lessons = append(topic.topic.Lessons, Lesson{
			Title:     lessonTitle(string(content), fileName),
			ContentMD: string(content),
			SortOrder: sortHint(fileName),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	payload := &Payload{}
	for _, name := range sortedKeys(modules, func(m *scannedModule) int { return m.module.SortOrder }) {
		mod := modules[name]
		for _, key := range sortedKeys(mod.topics, func(t *scannedTopic) int { return t.topic.SortOrder }) {
			topic := mod.topics[key].topic
			sort.SliceStable(topic.Lessons, func(i, j int) bool {
				a, b := topic.Lessons[i], topic.Lessons[j]
				if a.SortOrder != b.SortOrder {
					return a.SortOrder < b.SortOrder
				}
				return a.Title < b.Title
			})
			mod.module.Topics = append(mod.module.Topics, topic)
		}
		payload.Modules = append(payload.Modules, mod.module)
	}
	return payload, nil
}

// sortedKeys orders map keys by hint, then by key.
func sortedKeys[T any](m map[string]T, hint func(T) int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		hi, hj := hint(m[keys[i]]), hint(m[keys[j]])
		if hi != hj {
			return hi < hj
		}
		return keys[i] < keys[j]
	})
	return keys
}
