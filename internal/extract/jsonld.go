package extract

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"github.com/titanous/json5"
	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/classify"
	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/weblink"
)

// JSONLD collects every schema.org Person with a name from the page's
// linked-data blocks, walking nested objects and arrays. Malformed blocks are
// retried with a lenient JSON5 parser and skipped if that fails too.
func JSONLD(doc *goquery.Document) []model.PersonRecord {
	base := baseOf(doc)
	var people []model.PersonRecord
	doc.Find(`script[type*="ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		data, err := parseLinkedData(raw)
		if err != nil {
			zap.L().Debug("skipping malformed json-ld", zap.String("url", base), zap.Error(err))
			return
		}
		walkLinkedData(data, base, &people)
	})

	var out []model.PersonRecord
	seen := make(map[string]bool)
	for _, p := range people {
		key := strings.ToLower(p.Name) + "\x00" + strings.ToLower(p.Role) + "\x00" + p.ProfileURL
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

func parseLinkedData(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v, nil
	}
	v = nil
	if err := json5.Unmarshal([]byte(raw), &v); err != nil {
		return nil, eris.Wrap(err, "extract: parse json-ld")
	}
	return v, nil
}

func walkLinkedData(v any, base string, out *[]model.PersonRecord) {
	switch t := v.(type) {
	case map[string]any:
		if isPersonType(t["@type"]) {
			if rec, ok := personFromLinkedData(t, base); ok {
				*out = append(*out, rec)
			}
		}
		for _, k := range slices.Sorted(maps.Keys(t)) {
			walkLinkedData(t[k], base, out)
		}
	case []any:
		for _, child := range t {
			walkLinkedData(child, base, out)
		}
	}
}

func isPersonType(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.EqualFold(t, "person")
	case []any:
		for _, x := range t {
			if s, ok := x.(string); ok && strings.EqualFold(s, "person") {
				return true
			}
		}
	}
	return false
}

func personFromLinkedData(m map[string]any, base string) (model.PersonRecord, bool) {
	name := stringField(m["name"])
	if name == "" {
		name = strings.TrimSpace(stringField(m["givenName"]) + " " + stringField(m["familyName"]))
	}
	if name == "" {
		return model.PersonRecord{}, false
	}

	role := stringField(m["jobTitle"])
	if role == "" {
		role = stringField(m["jobtitle"])
	}
	rec := model.PersonRecord{
		Name:   weblink.CollapseSpace(name),
		Role:   weblink.CollapseSpace(role),
		Source: model.SourceJSONLD,
	}
	if u := stringField(m["url"]); u != "" {
		if abs := weblink.Resolve(base, u); abs != "" {
			rec.ProfileURL = abs
		} else if strings.HasPrefix(u, "http") {
			rec.ProfileURL = weblink.Normalize(u)
		}
	}
	if e := classify.NormalizeEmail(stringField(m["email"])); e != "" {
		rec.AddEmail(e)
	}
	if p := stringField(m["telephone"]); p != "" {
		addPhone(&rec, p)
	}
	rec.Address = formatAddress(m["address"])
	return rec, true
}

// stringField reads a string, the first string of an array, or the name of a
// nested object.
func stringField(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		for _, x := range t {
			if s := stringField(x); s != "" {
				return s
			}
		}
	case map[string]any:
		return stringField(t["name"])
	}
	return ""
}

func formatAddress(v any) string {
	switch t := v.(type) {
	case string:
		return weblink.CollapseSpace(t)
	case []any:
		if len(t) > 0 {
			return formatAddress(t[0])
		}
	case map[string]any:
		var parts []string
		for _, k := range []string{"streetAddress", "addressLocality", "addressRegion", "postalCode", "addressCountry"} {
			if s := stringField(t[k]); s != "" {
				parts = append(parts, weblink.CollapseSpace(s))
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}
