// Package transfer encodes the whole roster into a single shareable token
// and back.
//
// A token is base64 of the JSON object {"v":1,"t":[...],"s":[...],"ts":ms}.
// Tokens without "v" are the legacy format and decode as version 1.
package transfer

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
)

// Version is the schema version written by Encode.
const Version = 1

// Fragment keys recognised in share links. The first is written.
var fragmentKeys = []string{"storage", "sync"}

var (
	ErrMalformed          = errors.New("transfer token malformed")
	ErrMissingField       = errors.New("transfer token missing required field")
	ErrUnsupportedVersion = errors.New("transfer token version not supported")
)

// Snapshot is the content of a token.
type Snapshot struct {
	Version     int
	Instructors []model.Instructor
	Students    []model.Student
	ExportedAt  time.Time
}

type wire struct {
	V *int                `json:"v,omitempty"`
	T *[]model.Instructor `json:"t"`
	S *[]model.Student    `json:"s"`
	// TS epoch millis
	TS int64 `json:"ts"`
}

// Encode serialises instructors and students stamped with at.
func Encode(instructors []model.Instructor, students []model.Student, at time.Time) (string, error) {
	if instructors == nil {
		instructors = []model.Instructor{}
	}
	if students == nil {
		students = []model.Student{}
	}
	v := Version
	raw, err := json.Marshal(wire{V: &v, T: &instructors, S: &students, TS: at.UnixMilli()})
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decode parses a token. Missing or null "t"/"s" yield ErrMissingField;
// bad base64 or JSON yield ErrMalformed.
func Decode(token string) (Snapshot, error) {
	raw, err := decodeBase64(strings.TrimSpace(token))
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !utf8.Valid(raw) {
		// legacy tokens were produced from Latin-1 strings
		raw = latin1ToUTF8(raw)
	}

	var w wire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	version := 1
	if w.V != nil {
		version = *w.V
	}
	if version < 1 || version > Version {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	if w.T == nil {
		return Snapshot{}, fmt.Errorf("%w: t", ErrMissingField)
	}
	if w.S == nil {
		return Snapshot{}, fmt.Errorf("%w: s", ErrMissingField)
	}

	return Snapshot{
		Version:     version,
		Instructors: *w.T,
		Students:    *w.S,
		ExportedAt:  time.UnixMilli(w.TS),
	}, nil
}

// ShareURL appends token to base as a link fragment.
func ShareURL(base, token string) string {
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base = base[:i]
	}
	return base + "#" + fragmentKeys[0] + "=" + token
}

// TokenFromLocation extracts a token from a full link, a bare fragment
// ("#sync=..." or "storage=...") or a raw token.
func TokenFromLocation(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return fromFragment(s[i+1:])
	}
	if tok, ok := fromFragment(s); ok {
		return tok, true
	}
	if strings.Contains(s, "://") {
		return "", false
	}
	return s, s != ""
}

func fromFragment(frag string) (string, bool) {
	for _, part := range strings.Split(frag, "&") {
		for _, key := range fragmentKeys {
			if v, ok := strings.CutPrefix(part, key+"="); ok && v != "" {
				if unescaped, err := url.PathUnescape(v); err == nil {
					v = unescaped
				}
				return v, true
			}
		}
	}
	return "", false
}

func decodeBase64(s string) ([]byte, error) {
	var firstErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding,
		base64.URLEncoding, base64.RawURLEncoding,
	} {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

func latin1ToUTF8(b []byte) []byte {
	out := make([]rune, len(b))
	for i, c := range b {
		out[i] = rune(c)
	}
	return []byte(string(out))
}
