package tutor

import (
	"math/rand/v2"
	"sync"
)

// Source picks indexes for uniform random selection.
// IntN must return a value in [0, n) for n > 0.
type Source interface {
	IntN(n int) int
}

// globalSource draws from the math/rand/v2 top-level generator, which is
// safe for concurrent use.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource returns the process-wide random source.
func DefaultSource() Source {
	return globalSource{}
}

// lockedSource serializes access to a seeded generator.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// NewSeededSource returns a reproducible Source. The same seed yields the
// same sequence of picks.
func NewSeededSource(seed uint64) Source {
	return &lockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Reply is a composed tutoring response along with how it was chosen.
type Reply struct {
	Subject  Subject
	Grade    int
	Modality Modality
	Prefix   string
	Template string
	FollowUp string
	// Fallback is true when the generic grade-interpolated family was used.
	Fallback bool
}

// Text returns the full response string: prefix + template + follow-up.
func (r Reply) Text() string {
	return r.Prefix + r.Template + r.FollowUp
}

// Responder composes replies from a Catalog. It holds no mutable state of
// its own and may be shared across sessions.
type Responder struct {
	catalog *Catalog
	src     Source
}

// NewResponder creates a Responder. A nil catalog uses DefaultCatalog and a
// nil source uses DefaultSource.
func NewResponder(catalog *Catalog, src Source) *Responder {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if src == nil {
		src = DefaultSource()
	}
	return &Responder{catalog: catalog, src: src}
}

// Catalog returns the catalog replies are drawn from.
func (r *Responder) Catalog() *Catalog {
	return r.catalog
}

// Reply classifies the question and composes a response. It never fails:
// unmatched questions and grades missing from the table degrade to the
// fallback family. The grade is not range-checked.
func (r *Responder) Reply(question string, grade int, modality Modality) Reply {
	subject := r.catalog.Classify(question)

	reply := Reply{
		Subject:  subject,
		Grade:    grade,
		Modality: modality,
		Prefix:   r.catalog.Prefix(modality),
	}

	templates, ok := r.catalog.Templates(subject, grade)
	if subject == SubjectGeneral || !ok {
		templates = r.catalog.FallbackTemplates(grade)
		reply.Fallback = true
	}

	reply.Template = pick(r.src, templates)
	reply.FollowUp = pick(r.src, r.catalog.followUps)
	return reply
}

// Respond returns the response text for a question.
func (r *Responder) Respond(question string, grade int, modality Modality) string {
	return r.Reply(question, grade, modality).Text()
}

// GenerateResponse composes a response with the default catalog and random
// source.
func GenerateResponse(question string, grade int, modality Modality) string {
	return NewResponder(nil, nil).Respond(question, grade, modality)
}

// pick selects one item uniformly. Out-of-range indexes from a misbehaving
// source are folded back into range.
func pick(src Source, items []string) string {
	if len(items) == 0 {
		return ""
	}
	i := src.IntN(len(items)) % len(items)
	if i < 0 {
		i += len(items)
	}
	return items[i]
}
