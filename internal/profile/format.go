package profile

import "strings"

const notAvailable = "N/A"

type kind int

const (
	scalar kind = iota
	list
	quotes
)

type field struct {
	label string
	kind  kind
	text  func(r *Record) Text
	list  func(r *Record) List
}

// fields is the canonical order of the rendered profile.
var fields = []field{
	{label: "Name", text: func(r *Record) Text { return r.Name }},
	{label: "Nickname", text: func(r *Record) Text { return r.Nickname }},
	{label: "Birthday", text: func(r *Record) Text { return r.Birthday }},
	{label: "Age", text: func(r *Record) Text { return r.Age }},
	{label: "Occupation", text: func(r *Record) Text { return r.Occupation }},
	{label: "Location", text: func(r *Record) Text { return r.Location }},
	{label: "Education", text: func(r *Record) Text { return r.Education }},
	{label: "Interests", kind: list, list: func(r *Record) List { return r.Interests }},
	{label: "Hobbies", kind: list, list: func(r *Record) List { return r.Hobbies }},
	{label: "Skills", kind: list, list: func(r *Record) List { return r.Skills }},
	{label: "Experience", text: func(r *Record) Text { return r.Experience }},
	{label: "Personality Traits", kind: list, list: func(r *Record) List { return r.PersonalityTraits }},
	{label: "Goals", text: func(r *Record) Text { return r.Goals }},
	{label: "Challenges", text: func(r *Record) Text { return r.Challenges }},
	{label: "Background", text: func(r *Record) Text { return r.Background }},
	{label: "Affiliations", kind: list, list: func(r *Record) List { return r.Affiliations }},
	{label: "Favorite Books", kind: list, list: func(r *Record) List { return r.FavoriteBooks }},
	{label: "Favorite Movies", kind: list, list: func(r *Record) List { return r.FavoriteMovies }},
	{label: "Favorite Music", kind: list, list: func(r *Record) List { return r.FavoriteMusic }},
	{label: "Achievements", kind: list, list: func(r *Record) List { return r.Achievements }},
	{label: "Family", text: func(r *Record) Text { return r.Family }},
	{label: "Relationship Status", text: func(r *Record) Text { return r.RelationshipStatus }},
	{label: "Memorable Quotes", kind: quotes, list: func(r *Record) List { return r.MemorableQuotes }},
	{label: "Additional Notes", text: func(r *Record) Text { return r.AdditionalNotes }},
}

// Labels returns the profile labels in rendering order.
func Labels() []string {
	labels := make([]string, 0, len(fields))
	for _, f := range fields {
		labels = append(labels, f.label)
	}
	return labels
}

// Format renders a record as the canonical multi-line profile body.
// Missing values render as N/A, a nil record renders every field as N/A.
func Format(r *Record) string {
	if r == nil {
		r = &Record{}
	}

	lines := make([]string, 0, len(fields))
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
		lines = append(lines, f.label+": "+value)
	}

	return strings.Join(lines, "\n")
}

func formatText(t Text) string {
	if t == "" || t == "null" {
		return notAvailable
	}
	return string(t)
}

func formatList(items List) string {
	if len(items) == 0 {
		return notAvailable
	}
	return strings.Join(items, ", ")
}

func formatQuotes(items List) string {
	kept := make([]string, 0, len(items))
	for _, q := range items {
		if q != "" && q != "null" {
			kept = append(kept, q)
		}
	}
	if len(kept) == 0 {
		return notAvailable
	}
	return "- " + strings.Join(kept, "\n- ")
}
