// Package urlparams extracts bootstrap settings from a navigation URL and
// builds share links that carry them.
//
// Fragment parameters are decoded with path rules so a literal '+' is kept;
// only the query string uses form decoding where '+' means space.
package urlparams

import (
	"net/url"
	"sort"
	"strings"
)

const (
	KeyToken      = "token"
	KeySessionKey = "sessionKey"
	KeySession    = "session"
	KeyPassword   = "password"
	KeyGatewayURL = "gatewayUrl"
)

// recognized maps every accepted parameter name to the patch field it
// fills. Aliases come after their canonical name in aliasOrder.
var recognized = map[string]string{
	KeyToken:      KeyToken,
	KeySessionKey: KeySessionKey,
	KeySession:    KeySessionKey,
	KeyPassword:   KeyPassword,
	KeyGatewayURL: KeyGatewayURL,
}

var aliasOrder = map[string][]string{
	KeyToken:      {KeyToken},
	KeySessionKey: {KeySessionKey, KeySession},
	KeyPassword:   {KeyPassword},
	KeyGatewayURL: {KeyGatewayURL},
}

// Patch is the sparse set of settings found in a URL. A nil field was not
// present (or could not be decoded).
type Patch struct {
	Token      *string
	SessionKey *string
	Password   *string
	GatewayURL *string
}

func (p Patch) Empty() bool {
	return p.Token == nil && p.SessionKey == nil && p.Password == nil && p.GatewayURL == nil
}

// Keys lists the fields present, sorted. Safe to log.
func (p Patch) Keys() []string {
	var keys []string
	if p.GatewayURL != nil {
		keys = append(keys, KeyGatewayURL)
	}
	if p.Password != nil {
		keys = append(keys, KeyPassword)
	}
	if p.SessionKey != nil {
		keys = append(keys, KeySessionKey)
	}
	if p.Token != nil {
		keys = append(keys, KeyToken)
	}
	sort.Strings(keys)
	return keys
}

func (p *Patch) set(field, value string) {
	v := value
	switch field {
	case KeyToken:
		p.Token = &v
	case KeySessionKey:
		p.SessionKey = &v
	case KeyPassword:
		p.Password = &v
	case KeyGatewayURL:
		p.GatewayURL = &v
	}
}

// Parse reads recognized parameters from raw. Each field is taken from the
// fragment when the fragment names it, otherwise from the query string.
// Values that are blank or carry invalid escapes are left out.
func Parse(raw string) Patch {
	var patch Patch
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return patch
	}
	_, query, fragment := splitURL(raw)
	fromFragment := parseParams(fragment, url.PathUnescape)
	fromQuery := parseParams(query, url.QueryUnescape)

	for field, names := range aliasOrder {
		if value, ok := lookup(fromFragment, names); ok {
			if value.ok {
				patch.set(field, value.value)
			}
			continue
		}
		if value, ok := lookup(fromQuery, names); ok && value.ok {
			patch.set(field, value.value)
		}
	}
	return patch
}

type param struct {
	value string
	ok    bool
}

func lookup(params map[string]param, names []string) (param, bool) {
	for _, name := range names {
		if value, ok := params[name]; ok {
			return value, true
		}
	}
	return param{}, false
}

// parseParams splits an "a=b&c=d" list. The first occurrence of a key
// wins; an undecodable or blank value is recorded as present but not ok.
func parseParams(raw string, decode func(string) (string, error)) map[string]param {
	out := map[string]param{}
	if raw == "" {
		return out
	}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := decode(rawKey)
		if err != nil {
			continue
		}
		if _, ok := recognized[key]; !ok {
			continue
		}
		if _, seen := out[key]; seen {
			continue
		}
		value, err := decode(rawValue)
		if err != nil {
			out[key] = param{}
			continue
		}
		value = strings.TrimSpace(value)
		out[key] = param{value: value, ok: value != ""}
	}
	return out
}

// splitURL cuts raw into the part before '?', the query and the fragment
// without their separators.
func splitURL(raw string) (base, query, fragment string) {
	beforeFragment, fragment, _ := strings.Cut(raw, "#")
	base, query, _ = strings.Cut(beforeFragment, "?")
	return base, query, fragment
}
