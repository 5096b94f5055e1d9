// Package tokenizer provides a greedy longest-match approximation of a
// fixed BPE vocabulary. It is not a reference tiktoken implementation —
// token counts are typically within a few percent of one, which is
// sufficient for sizing chunks and insufficient for exact interchange.
package tokenizer

import (
	"bufio"
	"bytes"
	"encoding/base64"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

//go:embed data/vocab.txt
var vocabBlob []byte

// maxTokenBytes bounds the longest candidate substring tried during
// encode. Most real BPE tokens are shorter than this; raising it only
// costs a few more failed lookups per position.
const maxTokenBytes = 20

type vocabulary struct {
	encode map[string]uint32
	decode map[uint32]string
}

var (
	vocabOnce sync.Once
	vocab     *vocabulary
	vocabErr  error
)

// Tokenizer counts, encodes and decodes text against the embedded
// vocabulary. The zero value is usable; all instances share the same
// process-wide vocabulary.
type Tokenizer struct{}

// New returns a Tokenizer, loading the embedded vocabulary on first use.
// Vocabulary load failure is fatal and not recoverable: it indicates the
// embedded data is corrupt, which cannot happen at runtime short of a
// broken build.
func New() *Tokenizer {
	loadVocabulary()
	if vocabErr != nil {
		panic(fmt.Errorf("tokenizer: vocabulary load failed: %w", vocabErr))
	}
	return &Tokenizer{}
}

func loadVocabulary() {
	vocabOnce.Do(func() {
		v, err := parseVocabulary(vocabBlob)
		if err != nil {
			vocabErr = err
			return
		}
		vocab = v
	})
}

func parseVocabulary(blob []byte) (*vocabulary, error) {
	v := &vocabulary{
		encode: make(map[string]uint32, 8192),
		decode: make(map[uint32]string, 8192),
	}

	scanner := bufio.NewScanner(bytes.NewReader(blob))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		sp := strings.LastIndexByte(line, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("vocabulary line %d: missing id separator", lineNo)
		}
		tokB64, idStr := line[:sp], line[sp+1:]
		raw, err := base64.StdEncoding.DecodeString(tokB64)
		if err != nil {
			return nil, fmt.Errorf("vocabulary line %d: %w", lineNo, err)
		}
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("vocabulary line %d: bad id %q: %w", lineNo, idStr, err)
		}
		tok := string(raw)
		v.encode[tok] = uint32(id)
		if _, exists := v.decode[uint32(id)]; !exists {
			v.decode[uint32(id)] = tok
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("vocabulary scan: %w", err)
	}
	if len(v.encode) == 0 {
		return nil, fmt.Errorf("vocabulary is empty")
	}
	return v, nil
}

// Encode scans text left to right, emitting the id of the longest
// vocabulary entry that matches at the current position, falling back to
// the raw byte value (0-255) when nothing matches. Every byte of input
// advances the cursor, so encode never stalls.
func (t *Tokenizer) Encode(text string) []uint32 {
	loadVocabulary()
	if text == "" {
		return nil
	}

	ids := make([]uint32, 0, len(text)/3+1)
	b := []byte(text)
	pos := 0
	for pos < len(b) {
		maxLen := len(b) - pos
		if maxLen > maxTokenBytes {
			maxLen = maxTokenBytes
		}

		matched := false
		for l := maxLen; l > 0; l-- {
			if id, ok := vocab.encode[string(b[pos:pos+l])]; ok {
				ids = append(ids, id)
				pos += l
				matched = true
				break
			}
		}
		if !matched {
			ids = append(ids, uint32(b[pos]))
			pos++
		}
	}
	return ids
}

// Count returns the number of tokens Encode would produce, without
// allocating the id slice's final backing beyond what Encode itself
// needs.
func (t *Tokenizer) Count(text string) int {
	return len(t.Encode(text))
}

// Decode concatenates the byte sequence for each id. Unknown ids in the
// range [0,255] decode as that raw byte (the byte-fallback counterpart);
// any other unknown id is silently skipped. decode(encode(x)) is not
// guaranteed to reproduce x bit-for-bit.
func (t *Tokenizer) Decode(ids []uint32) []byte {
	loadVocabulary()
	var buf bytes.Buffer
	for _, id := range ids {
		if tok, ok := vocab.decode[id]; ok {
			buf.WriteString(tok)
			continue
		}
		if id < 256 {
			buf.WriteByte(byte(id))
		}
	}
	return buf.Bytes()
}
