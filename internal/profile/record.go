// Package profile holds the structured description of an entity and its
// canonical text rendering.
package profile

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Record is the structured description a summarizer produces for one entity.
// Every field is optional.
type Record struct {
	Name               Text `json:"name"`
	Nickname           Text `json:"nickname"`
	Birthday           Text `json:"birthday"`
	Age                Text `json:"age"`
	Occupation         Text `json:"occupation"`
	Location           Text `json:"location"`
	Education          Text `json:"education"`
	Interests          List `json:"interests"`
	Hobbies            List `json:"hobbies"`
	Skills             List `json:"skills"`
	Experience         Text `json:"experience"`
	PersonalityTraits  List `json:"personalityTraits"`
	Goals              Text `json:"goals"`
	Challenges         Text `json:"challenges"`
	Background         Text `json:"background"`
	Affiliations       List `json:"affiliations"`
	FavoriteBooks      List `json:"favoriteBooks"`
	FavoriteMovies     List `json:"favoriteMovies"`
	FavoriteMusic      List `json:"favoriteMusic"`
	Achievements       List `json:"achievements"`
	Family             Text `json:"family"`
	RelationshipStatus Text `json:"relationshipStatus"`
	MemorableQuotes    List `json:"memorableQuotes"`
	AdditionalNotes    Text `json:"additionalNotes"`
}

// Text is a scalar field. Numbers and booleans are kept as their literal text,
// null decodes to the empty value.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}

	if len(data) > 0 && (data[0] == '[' || data[0] == '{') {
		// structured values have no scalar rendering
		*t = ""
		return nil
	}

	*t = Text(data)
	return nil
}

// List is an array field. Anything that is not an array decodes to an empty list.
type List []string

func (l *List) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		*l = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	items := make(List, 0, len(raw))
	for _, item := range raw {
		var t Text
		if err := t.UnmarshalJSON(item); err != nil {
			return err
		}
		items = append(items, string(t))
	}
	*l = items

	return nil
}

// DisplayName returns the trimmed name field.
func (r *Record) DisplayName() string {
	if r == nil {
		return ""
	}
	name := strings.TrimSpace(string(r.Name))
	if name == "null" {
		return ""
	}
	return name
}

// IsEmpty reports whether every field renders as N/A.
func (r *Record) IsEmpty() bool {
	if r == nil {
		return true
	}
	for _, f := range fields {
		var value string
		switch f.kind {
		case list:
			value = formatList(f.list(r))
		case quotes:
			value = formatQuotes(f.list(r))
		default:
			value = formatText(f.text(r))
		}
		if value != notAvailable {
			return false
		}
	}
	return true
}

// ParseRecord decodes a summarizer JSON object. A null answer or an object
// without any usable field decodes to a nil record, which leaves the profile
// as it is.
func ParseRecord(data []byte) (*Record, error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	record := &Record{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, err
	}
	if record.IsEmpty() {
		return nil, nil
	}
	return record, nil
}
