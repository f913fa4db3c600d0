// Package importing turns user-authored spreadsheets into lead candidates.
// Validation is a pure pass that always produces a full report; storage is
// only touched by Commit.
package importing

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is one raw spreadsheet row keyed by its header cells.
type Row map[string]any

// Column aliases accepted for each field, compared after normalizeKey.
var (
	nameKeys     = []string{"nome", "name", "nome_completo"}
	phoneKeys    = []string{"telefono", "phone", "tel", "cellulare"}
	emailKeys    = []string{"email", "e_mail", "mail"}
	interestKeys = []string{"interesse", "interest"}
	notesKeys    = []string{"note", "notes"}
	detailsKeys  = []string{"dettagli_claude", "dettagli", "details"}
	contextKeys  = []string{"contesto_aggiuntivo", "contesto", "context"}
	channelKeys  = []string{"canale_preferito", "canale", "channel"}
)

// normalizeKey lower-cases a header and folds spaces and dashes to underscores
// so "Nome Completo", "nome-completo" and "NOME_COMPLETO" compare equal.
func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return '_'
		}
		return r
	}, key)
}

// lookup returns the first non-empty value among the aliases.
func (r Row) lookup(aliases []string) string {
	normalized := make(map[string]any, len(r))
	for k, v := range r {
		nk := normalizeKey(k)
		if _, taken := normalized[nk]; taken && stringify(normalized[nk]) != "" {
			continue
		}
		normalized[nk] = v
	}
	for _, alias := range aliases {
		if v, ok := normalized[alias]; ok {
			if s := stringify(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// stringify renders a cell value. JSON numbers arrive as float64 and phone
// numbers typed into spreadsheets are often numeric, so integral floats are
// printed without exponent or decimals.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
