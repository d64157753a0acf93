// Package dictionary loads code and address dictionary files for the
// mutation engine's overwrite and havoc stages.
package dictionary

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/sfuzz-go/mutation/internal/ambienterr"
	"github.com/sfuzz-go/mutation/internal/mutation"
)

// FormatVersion is the dictionary file format this loader understands.
// A file may declare a "# dict-version: X.Y.Z" header; loading fails
// if that version's major component doesn't match.
var FormatVersion = semver.MustParse("1.0.0")

// Load parses a code dictionary: one token per line, either a quoted
// string (escapes \n, \t, \\, \" and \xHH) or a bare `0x`-prefixed
// hex string. Blank
// lines and `#` comments are skipped; a `# dict-version: X.Y.Z` header
// is checked against FormatVersion if present.
func Load(path string, r io.Reader) (mutation.Dictionary, error) {
	entries, err := parseEntries(path, r)
	if err != nil {
		return mutation.Dictionary{}, err
	}

	return mutation.Dictionary{Extras: entries}, nil
}

// LoadAddresses parses an address dictionary the same way as Load, but
// rejects any entry whose decoded length isn't mutation.AddressDictLen.
func LoadAddresses(path string, r io.Reader) (mutation.Dictionary, error) {
	entries, err := parseEntries(path, r)
	if err != nil {
		return mutation.Dictionary{}, err
	}

	for i, e := range entries {
		if len(e.Data) != mutation.AddressDictLen {
			return mutation.Dictionary{}, ambienterr.DictionaryParse(path, i+1,
				fmt.Sprintf("address entry must be %d bytes, got %d", mutation.AddressDictLen, len(e.Data)))
		}
	}

	return mutation.Dictionary{Extras: entries}, nil
}

func parseEntries(path string, r io.Reader) ([]mutation.DictEntry, error) {
	var entries []mutation.DictEntry

	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			if v, ok := strings.CutPrefix(line, "# dict-version:"); ok {
				if err := checkVersion(path, strings.TrimSpace(v)); err != nil {
					return nil, err
				}
			}

			continue
		}

		data, err := decodeToken(line)
		if err != nil {
			return nil, ambienterr.DictionaryParse(path, lineNo, err.Error())
		}

		entries = append(entries, mutation.DictEntry{Data: data})
	}

	if err := scanner.Err(); err != nil {
		return nil, ambienterr.DictionaryParse(path, lineNo, err.Error())
	}

	return entries, nil
}

func checkVersion(path, raw string) error {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return ambienterr.DictionaryParse(path, 0, fmt.Sprintf("bad dict-version %q: %v", raw, err))
	}

	if v.Major() != FormatVersion.Major() {
		return ambienterr.DictionaryVersion(path, v.String(), FormatVersion.String())
	}

	return nil
}

func decodeToken(tok string) ([]byte, error) {
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		return hex.DecodeString(tok[2:])
	}

	if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
		unquoted, err := unquote(tok)
		if err != nil {
			return nil, err
		}

		return []byte(unquoted), nil
	}

	return nil, fmt.Errorf("token %q is neither 0x-hex nor a quoted string", tok)
}

func unquote(tok string) (string, error) {
	var b strings.Builder

	inner := tok[1 : len(tok)-1]

	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c != '\\' || i+1 >= len(inner) {
			b.WriteByte(c)
			continue
		}

		i++

		switch inner[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 'x':
			if i+2 >= len(inner) {
				return "", fmt.Errorf("truncated \\x escape")
			}

			decoded, err := hex.DecodeString(inner[i+1 : i+3])
			if err != nil {
				return "", err
			}

			b.Write(decoded)
			i += 2
		default:
			return "", fmt.Errorf("unknown escape \\%c", inner[i])
		}
	}

	return b.String(), nil
}
