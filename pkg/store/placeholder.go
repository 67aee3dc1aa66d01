package store

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"strings"
)

// PlaceholderMode selects how synthesized filler content looks. It is a
// rendering concern only and has no effect on indexing logic.
type PlaceholderMode int

const (
	// PlaceholderBlank renders empty fields.
	PlaceholderBlank PlaceholderMode = iota
	// PlaceholderDotted renders ellipsis runs.
	PlaceholderDotted
	// PlaceholderSkeleton renders solid bars sized like neighbor content.
	PlaceholderSkeleton
	// PlaceholderMasked renders neighbor content with characters masked.
	PlaceholderMasked
	// PlaceholderPattern renders pseudo-realistic text derived from
	// patterns in the loaded neighborhood.
	PlaceholderPattern
)

func (m PlaceholderMode) String() string {
	switch m {
	case PlaceholderBlank:
		return "blank"
	case PlaceholderDotted:
		return "dotted"
	case PlaceholderSkeleton:
		return "skeleton"
	case PlaceholderMasked:
		return "masked"
	case PlaceholderPattern:
		return "pattern"
	default:
		return fmt.Sprintf("placeholder(%d)", int(m))
	}
}

// ParsePlaceholderMode converts a configuration string to a mode.
func ParsePlaceholderMode(s string) (PlaceholderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skeleton":
		return PlaceholderSkeleton, nil
	case "blank":
		return PlaceholderBlank, nil
	case "dotted":
		return PlaceholderDotted, nil
	case "masked":
		return PlaceholderMasked, nil
	case "pattern":
		return PlaceholderPattern, nil
	}
	return PlaceholderBlank, fmt.Errorf("unknown placeholder mode %q", s)
}

// Placeholders synthesizes filler records for unloaded indices.
//
// Synthesis is deterministic for a fixed loaded neighborhood: the same gap
// rendered twice produces identical content, so repeated render passes do
// not flicker. Placeholder records are never stored.
type Placeholders struct {
	mode  PlaceholderMode
	store *Store
}

// NewPlaceholders returns a generator reading neighborhood patterns from
// the given store.
func NewPlaceholders(mode PlaceholderMode, store *Store) *Placeholders {
	return &Placeholders{mode: mode, store: store}
}

// Mode returns the configured placeholder mode.
func (p *Placeholders) Mode() PlaceholderMode {
	return p.mode
}

// Synthesize returns a placeholder record for index i.
func (p *Placeholders) Synthesize(i int) Record {
	neighbor, ok := p.store.nearestLoaded(i)
	fields := map[string]string{"text": ""}
	neighborID := ""
	if ok {
		fields = Fields(neighbor.Payload)
		neighborID = neighbor.ID
	}

	seed := placeholderSeed(i, neighborID)
	rng := rand.New(rand.NewSource(seed))

	out := make(map[string]string, len(fields))
	for _, key := range sortedKeys(fields) {
		out[key] = p.fillField(fields[key], rng)
	}
	return Record{
		Index:       i,
		ID:          fmt.Sprintf("placeholder-%d", i),
		Payload:     out,
		Placeholder: true,
	}
}

func (p *Placeholders) fillField(sample string, rng *rand.Rand) string {
	width := len([]rune(sample))
	if width == 0 {
		width = 8
	}
	switch p.mode {
	case PlaceholderBlank:
		return ""
	case PlaceholderDotted:
		return strings.Repeat("·", min(width, 24))
	case PlaceholderSkeleton:
		return strings.Repeat("█", min(width, 24))
	case PlaceholderMasked:
		return maskCharacters(sample)
	case PlaceholderPattern:
		return patternText(sample, width, rng)
	default:
		return ""
	}
}

// maskCharacters keeps word structure but hides the characters.
func maskCharacters(sample string) string {
	var sb strings.Builder
	for _, r := range sample {
		switch {
		case r == ' ':
			sb.WriteRune(' ')
		case r >= '0' && r <= '9':
			sb.WriteRune('#')
		default:
			sb.WriteRune('▪')
		}
	}
	return sb.String()
}

// patternText produces pseudo-realistic text shaped like the sample:
// words drawn from the neighborhood vocabulary with matching total width.
func patternText(sample string, width int, rng *rand.Rand) string {
	words := strings.Fields(sample)
	if len(words) == 0 {
		words = []string{"item"}
	}
	var sb strings.Builder
	for sb.Len() < width {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(words[rng.Intn(len(words))])
	}
	text := sb.String()
	if runes := []rune(text); len(runes) > width {
		text = string(runes[:width])
	}
	return text
}

// placeholderSeed derives a stable seed from the index and its loaded
// neighborhood so synthesis only changes when the neighborhood does.
func placeholderSeed(index int, neighborID string) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%s", index, neighborID)
	return int64(h.Sum64())
}

// Fields flattens an opaque payload into renderable string fields.
// Maps keep their keys; everything else becomes a single "text" field.
func Fields(payload any) map[string]string {
	switch v := payload.(type) {
	case nil:
		return map[string]string{"text": ""}
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, val := range v {
			out[k] = val
		}
		return out
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, val := range v {
			out[k] = fmt.Sprint(val)
		}
		return out
	case string:
		return map[string]string{"text": v}
	case fmt.Stringer:
		return map[string]string{"text": v.String()}
	default:
		return map[string]string{"text": fmt.Sprint(v)}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
