// Package google adapts the public translate endpoint: a GET request with
// stacked response variants, and a parser for the loosely-typed nested-array
// payload the endpoint returns.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/glotline/smart-translate/internal/config"
	"github.com/glotline/smart-translate/internal/engine"
	"github.com/glotline/smart-translate/internal/logger"
)

// langCodeMap maps the human-readable target-language names the UI stores to
// the short codes the endpoint expects.
var langCodeMap = map[string]string{
	"繁體中文": "zh-TW",
	"簡體中文": "zh-CN",
	"英文":   "en",
	"日文":   "ja",
	"韓文":   "ko",
	"法文":   "fr",
	"德文":   "de",
	"西班牙文": "es",
	"俄文":   "ru",
	"印地文":  "hi",
	"阿拉伯文": "ar",
	"孟加拉文": "bn",
	"葡萄牙文": "pt",
	"印尼文":  "id",
}

// Adapter talks to the dictionary/translate endpoint.
type Adapter struct {
	endpoint     string
	fallbackLang string
	client       *http.Client
	logger       *logger.Logger
}

// New creates a Google adapter from the engine configuration.
func New(cfg config.GoogleEngineConfig, log *logger.Logger) *Adapter {
	return &Adapter{
		endpoint:     cfg.Endpoint,
		fallbackLang: cfg.FallbackLang,
		client:       &http.Client{Timeout: cfg.RequestTimeout()},
		logger:       log.WithComponent("google-engine"),
	}
}

// LangCode resolves a human-readable target-language name to a short code.
// Unknown names fall back to the configured default.
func (a *Adapter) LangCode(targetLang string) string {
	if code, ok := langCodeMap[targetLang]; ok {
		return code
	}
	return a.fallbackLang
}

// Translate requests the sentence, back-translation, and dictionary variants
// for text and normalizes whichever of them the response actually carries.
func (a *Adapter) Translate(ctx context.Context, text, targetLang string) (string, error) {
	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", "auto")
	query.Set("tl", a.LangCode(targetLang))
	query["dt"] = []string{"t", "bd", "ss", "ex"}
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", &engine.NetworkError{Engine: engine.Google, Err: err}
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &engine.NetworkError{Engine: engine.Google, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		a.logger.Warn("translate request rejected", slog.Int("status", resp.StatusCode))
		return "", &engine.NetworkError{Engine: engine.Google, StatusCode: resp.StatusCode}
	}

	var payload []any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		a.logger.Warn("unparseable translate payload", slog.String("error", err.Error()))
		return "", &engine.EmptyResultError{Engine: engine.Google}
	}

	result := normalize(payload)
	if result == "" {
		return "", &engine.EmptyResultError{Engine: engine.Google}
	}

	return result, nil
}

// definitionList accumulates word senses per part-of-speech while preserving
// first-seen order on both levels. Duplicates across the synonym and
// dictionary sources collapse to one entry.
type definitionList struct {
	order []string
	words map[string][]string
	seen  map[string]map[string]struct{}
}

func newDefinitionList() *definitionList {
	return &definitionList{
		words: make(map[string][]string),
		seen:  make(map[string]map[string]struct{}),
	}
}

func (d *definitionList) add(partOfSpeech, word string) {
	if _, ok := d.seen[partOfSpeech]; !ok {
		d.order = append(d.order, partOfSpeech)
		d.seen[partOfSpeech] = make(map[string]struct{})
	}
	if _, dup := d.seen[partOfSpeech][word]; dup {
		return
	}
	d.seen[partOfSpeech][word] = struct{}{}
	d.words[partOfSpeech] = append(d.words[partOfSpeech], word)
}

func (d *definitionList) empty() bool { return len(d.order) == 0 }

func (d *definitionList) format() string {
	lines := make([]string, 0, len(d.order))
	for _, pos := range d.order {
		lines = append(lines, fmt.Sprintf("%s: %s", pos, strings.Join(d.words[pos], ", ")))
	}
	return strings.Join(lines, "\n")
}

// normalize extracts a display string from the endpoint's top-level array.
// Structured part-of-speech definitions win over the plain sentence
// translation; the sentence segments are the fallback.
func normalize(payload []any) string {
	defs := newDefinitionList()

	// Synonym-style blocks live in two known slots.
	for _, slot := range []int{1, 5} {
		if slot < len(payload) {
			collectSynonyms(defs, payload[slot])
		}
	}

	// The dictionary block has no fixed slot; find it by shape. Slot 0 is
	// always the sentence block, so the scan starts after it.
	for i, slot := range payload {
		if i == 0 {
			continue
		}
		if looksLikeDictionaryBlock(slot) {
			collectDefinitions(defs, slot)
			break
		}
	}

	if !defs.empty() {
		return defs.format()
	}

	if len(payload) > 0 {
		return joinSentenceSegments(payload[0])
	}

	return ""
}

// collectSynonyms walks a synonym block: a list of [partOfSpeech, [word...]]
// pairs. Anything not matching that shape is skipped.
func collectSynonyms(defs *definitionList, block any) {
	entries, ok := block.([]any)
	if !ok {
		return
	}
	for _, entry := range entries {
		pair, ok := entry.([]any)
		if !ok || len(pair) < 2 {
			continue
		}
		partOfSpeech, ok := pair[0].(string)
		if !ok {
			continue
		}
		words, ok := pair[1].([]any)
		if !ok {
			continue
		}
		for _, w := range words {
			if word, ok := w.(string); ok {
				defs.add(partOfSpeech, word)
			}
		}
	}
}

// looksLikeDictionaryBlock reports whether slot carries dictionary entries:
// its first member is a [partOfSpeech, definitionList] pair where the
// definitions are themselves arrays (synonym blocks hold plain strings
// there, which is what tells the two shapes apart).
func looksLikeDictionaryBlock(slot any) bool {
	block, ok := slot.([]any)
	if !ok || len(block) == 0 {
		return false
	}
	entry, ok := block[0].([]any)
	if !ok || len(entry) < 2 {
		return false
	}
	if _, ok := entry[0].(string); !ok {
		return false
	}
	defsList, ok := entry[1].([]any)
	if !ok || len(defsList) == 0 {
		return false
	}
	_, ok = defsList[0].([]any)
	return ok
}

// collectDefinitions walks a dictionary block: [partOfSpeech, [[def, ...]...]]
// pairs, where the first element of each inner array is the definition string.
func collectDefinitions(defs *definitionList, slot any) {
	entries, ok := slot.([]any)
	if !ok {
		return
	}
	for _, entry := range entries {
		pair, ok := entry.([]any)
		if !ok || len(pair) < 2 {
			continue
		}
		partOfSpeech, ok := pair[0].(string)
		if !ok {
			continue
		}
		definitions, ok := pair[1].([]any)
		if !ok {
			continue
		}
		for _, d := range definitions {
			def, ok := d.([]any)
			if !ok || len(def) == 0 {
				continue
			}
			if text, ok := def[0].(string); ok {
				defs.add(partOfSpeech, text)
			}
		}
	}
}

// joinSentenceSegments concatenates the translated segments of the sentence
// block, the plain-translation fallback when no definitions were returned.
func joinSentenceSegments(slot any) string {
	segments, ok := slot.([]any)
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, s := range segments {
		segment, ok := s.([]any)
		if !ok || len(segment) == 0 {
			continue
		}
		if text, ok := segment[0].(string); ok {
			b.WriteString(text)
		}
	}
	return b.String()
}
