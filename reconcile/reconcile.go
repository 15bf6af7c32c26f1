// Package reconcile keeps a student profile's declared sports and its
// two derived per-sport collections (approval details and positions)
// aligned.
//
// Clients declare sports in several historical shapes: a bare name,
// {"sport": ...}, {"name": ...}, or any of those with an explicit id
// under "sportId", "_id" or "id". Apply collapses them to one canonical
// list and rebuilds the derived collections so that each holds exactly
// one entry per unique sport key, in declaration order, preserving any
// existing status or position. It is a pure function and must be called
// before every profile persist; profiles are also written by cloning
// and admin edits, not just the student API.
package reconcile

import (
	"encoding/json"
	"strings"

	"github.com/harjotgill/sports-office/models"
)

// SportRef is the polymorphic sport identity accepted at the JSON
// boundary. It never travels past this package: Apply reduces refs to
// flat display names and stable keys.
type SportRef struct {
	Name string
	ID   string
}

func (r *SportRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Name = s
		r.ID = ""
		return nil
	}

	var obj struct {
		Sport   string `json:"sport"`
		Name    string `json:"name"`
		SportID string `json:"sportId"`
		MongoID string `json:"_id"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	switch {
	case obj.SportID != "":
		r.ID = obj.SportID
	case obj.MongoID != "":
		r.ID = obj.MongoID
	default:
		r.ID = obj.ID
	}
	if obj.Sport != "" {
		r.Name = obj.Sport
	} else {
		r.Name = obj.Name
	}
	return nil
}

// MarshalJSON writes the flat display name; the object forms are
// accepted on input only (the normalization is one-way).
func (r SportRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Name)
}

// FromNames wraps stored flat sport names back into refs, e.g. when
// re-reconciling a profile that was already normalized.
func FromNames(names []string) []SportRef {
	refs := make([]SportRef, 0, len(names))
	for _, n := range names {
		refs = append(refs, SportRef{Name: n})
	}
	return refs
}

// DeriveKey produces a stable identifier from a display name: trimmed,
// lower-cased, whitespace collapsed to hyphens, everything outside
// [a-z0-9-] stripped. Distinct spellings can collapse to one key
// ("Table Tennis" and "table-tennis"); that collapse is treated as
// aliasing of the same sport, not as an error.
func DeriveKey(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(name))
	inSpace := false
	for _, c := range name {
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if !inSpace {
				b.WriteByte('-')
				inSpace = true
			}
		case (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-':
			b.WriteRune(c)
			inSpace = false
		default:
			inSpace = false
		}
	}
	return b.String()
}

// canonical is one deduplicated sport: key is the explicit id when one
// was given, otherwise the display name.
type canonical struct {
	key   string
	name  string
	rawID string
}

func canonicalize(refs []SportRef) []canonical {
	seen := make(map[string]struct{}, len(refs))
	out := make([]canonical, 0, len(refs))
	for _, r := range refs {
		name := r.Name
		if name == "" && r.ID == "" {
			continue
		}
		key := r.ID
		if key == "" {
			key = name
		}
		if name == "" {
			name = key
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, canonical{key: key, name: name, rawID: r.ID})
	}
	return out
}

// resolveID picks the persisted sportId for a canonical sport:
// an existing entry's id wins, then the explicitly supplied id, then
// the key when it differs from the display name, then the name-derived
// key.
func resolveID(existingID string, c canonical) string {
	if existingID != "" {
		return existingID
	}
	if c.rawID != "" {
		return c.rawID
	}
	if c.key != c.name {
		return c.key
	}
	return DeriveKey(c.name)
}

// Apply rebuilds the derived collections from the declared sports.
// Returned slices are always freshly allocated; inputs are not mutated.
//
// Matching prefers the stable key (an entry's sportId, falling back to
// its name), then the case-insensitive display name. Matched entries
// keep their status/position verbatim and only have their id and
// display fields refreshed; unmatched sports start as pending; entries
// whose sport is no longer declared are dropped. Applying twice is a
// no-op.
func Apply(refs []SportRef, details []models.SportDetail, positions []models.SportPosition) (models.StringList, models.SportDetailList, models.SportPositionList) {
	sports := canonicalize(refs)

	detailByKey := make(map[string]models.SportDetail, len(details))
	detailByName := make(map[string]models.SportDetail, len(details))
	for _, d := range details {
		key := d.SportID
		if key == "" {
			key = d.Sport
		}
		if key != "" {
			if _, ok := detailByKey[key]; !ok {
				detailByKey[key] = d
			}
		}
		if d.Sport != "" {
			lower := strings.ToLower(d.Sport)
			if _, ok := detailByName[lower]; !ok {
				detailByName[lower] = d
			}
		}
	}

	posByKey := make(map[string]models.SportPosition, len(positions))
	posByName := make(map[string]models.SportPosition, len(positions))
	for _, p := range positions {
		key := p.SportID
		if key == "" {
			key = p.Sport
		}
		if key != "" {
			if _, ok := posByKey[key]; !ok {
				posByKey[key] = p
			}
		}
		if p.Sport != "" {
			lower := strings.ToLower(p.Sport)
			if _, ok := posByName[lower]; !ok {
				posByName[lower] = p
			}
		}
	}

	names := make(models.StringList, 0, len(sports))
	newDetails := make(models.SportDetailList, 0, len(sports))
	newPositions := make(models.SportPositionList, 0, len(sports))

	for _, c := range sports {
		names = append(names, c.name)
		lower := strings.ToLower(c.name)

		detail, found := detailByKey[c.key]
		if !found {
			detail, found = detailByKey[c.name]
		}
		if !found {
			detail, found = detailByName[lower]
		}
		status := models.StatusPending
		existingID := ""
		if found {
			status = detail.Status
			existingID = detail.SportID
		}
		newDetails = append(newDetails, models.SportDetail{
			SportID: resolveID(existingID, c),
			Sport:   c.name,
			Status:  status,
		})

		pos, found := posByKey[c.key]
		if !found {
			pos, found = posByKey[c.name]
		}
		if !found {
			pos, found = posByName[lower]
		}
		position := models.PositionPending
		existingID = ""
		if found {
			position = pos.Position
			existingID = pos.SportID
		}
		newPositions = append(newPositions, models.SportPosition{
			SportID:  resolveID(existingID, c),
			Sport:    c.name,
			Position: position,
		})
	}

	return names, newDetails, newPositions
}

// Sync applies the profile's own declared sports in place. Used on
// persists where the sports were set from already-flat names (clones,
// admin edits).
func Sync(p *models.StudentProfile) {
	p.Sports, p.SportsDetails, p.Positions = Apply(FromNames(p.Sports), p.SportsDetails, p.Positions)
}
