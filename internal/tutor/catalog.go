package tutor

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var embeddedContent []byte

// gradePlaceholder is substituted with the grade number in fallback templates.
const gradePlaceholder = "{grade}"

// SubjectKeywords pairs a subject with the substrings that select it.
type SubjectKeywords struct {
	Subject  Subject
	Keywords []string
}

// Catalog holds the static response tables. A Catalog is immutable once
// built; every accessor returns a copy, so it is safe for concurrent use.
type Catalog struct {
	version   string
	keywords  []SubjectKeywords
	templates map[Subject]map[int][]string
	prefixes  map[Modality]string
	followUps []string
	fallback  []string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog returns the catalog built from the embedded content tables.
// It is parsed once per process.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		c, err := LoadCatalog(bytes.NewReader(embeddedContent))
		if err != nil {
			panic(fmt.Sprintf("tutor: embedded content is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// contentDoc is the YAML layout of a content pack.
type contentDoc struct {
	Version  string `yaml:"version"`
	Keywords []struct {
		Subject string   `yaml:"subject"`
		Words   []string `yaml:"words"`
	} `yaml:"keywords"`
	Subjects  map[string]map[string][]string `yaml:"subjects"`
	Prefixes  map[string]string              `yaml:"prefixes"`
	FollowUps []string                       `yaml:"follow_ups"`
	Fallback  []string                       `yaml:"fallback"`
}

// LoadCatalog reads a YAML content pack, validates it and builds a Catalog.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ContentError{Path: "", Err: fmt.Errorf("read content: %w", err)}
	}

	// Schema validation runs on the generic document so that unknown keys
	// and type mismatches are reported before the typed decode.
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, &ContentError{Err: fmt.Errorf("parse yaml: %w", err)}
	}
	if err := validateContent(generic); err != nil {
		return nil, err
	}

	var doc contentDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ContentError{Err: fmt.Errorf("decode content: %w", err)}
	}
	if err := checkVersion(doc.Version); err != nil {
		return nil, err
	}
	return buildCatalog(&doc)
}

func buildCatalog(doc *contentDoc) (*Catalog, error) {
	c := &Catalog{
		version:   doc.Version,
		templates: make(map[Subject]map[int][]string, len(doc.Subjects)),
		prefixes:  make(map[Modality]string, len(doc.Prefixes)),
		followUps: slices.Clone(doc.FollowUps),
		fallback:  slices.Clone(doc.Fallback),
	}

	for name, grades := range doc.Subjects {
		subject := Subject(strings.ToLower(strings.TrimSpace(name)))
		if subject == SubjectGeneral {
			return nil, &ContentError{Path: "subjects." + name, Err: fmt.Errorf("%q is reserved for unmatched questions", SubjectGeneral)}
		}
		byGrade := make(map[int][]string, len(grades))
		for key, templates := range grades {
			grade, err := strconv.Atoi(key)
			if err != nil || grade < 1 {
				return nil, &ContentError{Path: "subjects." + name + "." + key, Err: fmt.Errorf("grade must be a positive integer")}
			}
			byGrade[grade] = slices.Clone(templates)
		}
		c.templates[subject] = byGrade
	}

	seen := make(map[Subject]bool, len(doc.Keywords))
	for i, kw := range doc.Keywords {
		subject := Subject(strings.ToLower(strings.TrimSpace(kw.Subject)))
		path := fmt.Sprintf("keywords[%d]", i)
		if subject == SubjectGeneral {
			return nil, &ContentError{Path: path, Err: fmt.Errorf("%q cannot be selected by keywords", SubjectGeneral)}
		}
		if seen[subject] {
			return nil, &ContentError{Path: path, Err: fmt.Errorf("duplicate keyword entry for %q", subject)}
		}
		if _, ok := c.templates[subject]; !ok {
			return nil, &ContentError{Path: path, Err: fmt.Errorf("subject %q has no response table", subject)}
		}
		seen[subject] = true

		words := make([]string, 0, len(kw.Words))
		for _, w := range kw.Words {
			words = append(words, strings.ToLower(w))
		}
		c.keywords = append(c.keywords, SubjectKeywords{Subject: subject, Keywords: words})
	}

	for key, prefix := range doc.Prefixes {
		m, err := ParseModality(key)
		if err != nil {
			return nil, &ContentError{Path: "prefixes." + key, Err: err}
		}
		c.prefixes[m] = prefix
	}

	return c, nil
}

// Version returns the content pack version.
func (c *Catalog) Version() string {
	return c.version
}

// Keywords returns the classification table in priority order.
func (c *Catalog) Keywords() []SubjectKeywords {
	out := make([]SubjectKeywords, len(c.keywords))
	for i, kw := range c.keywords {
		out[i] = SubjectKeywords{Subject: kw.Subject, Keywords: slices.Clone(kw.Keywords)}
	}
	return out
}

// Subjects returns the subjects that have a response table, in keyword
// priority order followed by any table-only subjects sorted by name.
func (c *Catalog) Subjects() []Subject {
	out := make([]Subject, 0, len(c.templates))
	listed := make(map[Subject]bool, len(c.keywords))
	for _, kw := range c.keywords {
		out = append(out, kw.Subject)
		listed[kw.Subject] = true
	}
	var rest []Subject
	for s := range c.templates {
		if !listed[s] {
			rest = append(rest, s)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}

// Templates returns the templates for a subject and grade.
// The boolean is false when the pair is absent from the table.
func (c *Catalog) Templates(subject Subject, grade int) ([]string, bool) {
	byGrade, ok := c.templates[subject]
	if !ok {
		return nil, false
	}
	templates, ok := byGrade[grade]
	if !ok || len(templates) == 0 {
		return nil, false
	}
	return slices.Clone(templates), true
}

// FallbackTemplates returns the generic templates with the grade filled in.
func (c *Catalog) FallbackTemplates(grade int) []string {
	g := strconv.Itoa(grade)
	out := make([]string, len(c.fallback))
	for i, t := range c.fallback {
		out[i] = strings.ReplaceAll(t, gradePlaceholder, g)
	}
	return out
}

// Prefix returns the acknowledgment prefix for a modality. Text and
// unknown modalities have no prefix.
func (c *Catalog) Prefix(m Modality) string {
	return c.prefixes[m]
}

// FollowUps returns the continuation sentences.
func (c *Catalog) FollowUps() []string {
	return slices.Clone(c.followUps)
}

// Classify resolves the subject bucket for a question. Keyword sets are
// tested in priority order against the lowercased text; the first hit wins.
// Matching is plain substring containment, so "numbers" and "enumerate"
// both select mathematics.
func (c *Catalog) Classify(question string) Subject {
	lower := strings.ToLower(question)
	for _, kw := range c.keywords {
		for _, word := range kw.Keywords {
			if strings.Contains(lower, word) {
				return kw.Subject
			}
		}
	}
	return SubjectGeneral
}

// Classify resolves the subject bucket using the default catalog.
func Classify(question string) Subject {
	return DefaultCatalog().Classify(question)
}
