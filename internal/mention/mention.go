// Package mention turns free-text "@Full Name" spans into resolved user
// references at send time and back into highlight spans at render time.
// Message text keeps the spans verbatim; nothing is rewritten to ids.
package mention

import (
	"regexp"
	"sort"
	"strings"

	"opsdash/backend/internal/config"
	"opsdash/backend/internal/models"
)

// Candidate is a participant offered by the mention autocomplete.
type Candidate struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar,omitempty"`
	Role        string `json:"role"`
}

// Span is a highlighted mention inside rendered message text.
type Span struct {
	UserID string `json:"userId"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// SearchCandidates returns room participants whose display name matches the
// prefix case-insensitively. Only GROUP rooms surface mention search; direct
// rooms never do.
func SearchCandidates(room *models.Room, identities map[string]models.Identity, prefix string) []Candidate {
	if room.Type != config.RoomTypeGroup {
		return nil
	}
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var out []Candidate
	for _, p := range room.Participants {
		id, ok := identities[p.UserID]
		if !ok {
			continue
		}
		if prefix != "" && !strings.HasPrefix(strings.ToLower(id.DisplayName), prefix) {
			continue
		}
		out = append(out, Candidate{
			UserID:      id.ID,
			DisplayName: id.DisplayName,
			Avatar:      id.Avatar,
			Role:        p.Role,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out
}

// ValidateTags verifies each declared tag against the current participant
// list. A tag referencing a non-participant is rejected, not silently
// dropped; no message is persisted in that case.
func ValidateTags(tagged []string, room *models.Room) error {
	for _, userID := range tagged {
		if !room.HasParticipant(userID) {
			return models.NewValidationError("taggedUsers", "tagged user "+userID+" is not a room participant")
		}
	}
	return nil
}

// HighlightSpans re-derives mention spans by matching participant full
// names against the message text. The alternation is built from ALL known
// participant names, longest-first and regex-escaped, so a tagged name that
// is a prefix of another participant's name ("Bob" vs "Bobby") never
// highlights inside the longer one. Spans are emitted only for tagged ids.
func HighlightSpans(content string, identities map[string]models.Identity, taggedUserIDs []string) []Span {
	if len(taggedUserIDs) == 0 {
		return nil
	}
	tagged := make(map[string]bool, len(taggedUserIDs))
	for _, userID := range taggedUserIDs {
		tagged[userID] = true
	}

	type named struct {
		userID string
		name   string
	}
	var names []named
	for userID, id := range identities {
		if id.DisplayName == "" {
			continue
		}
		names = append(names, named{userID: userID, name: id.DisplayName})
	}
	if len(names) == 0 {
		return nil
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i].name) != len(names[j].name) {
			return len(names[i].name) > len(names[j].name)
		}
		return names[i].name < names[j].name
	})

	parts := make([]string, 0, len(names))
	byName := make(map[string]string, len(names))
	for _, n := range names {
		parts = append(parts, regexp.QuoteMeta(n.name))
		byName[n.name] = n.userID
	}
	re, err := regexp.Compile("@(" + strings.Join(parts, "|") + ")")
	if err != nil {
		return nil
	}

	var spans []Span
	for _, loc := range re.FindAllStringSubmatchIndex(content, -1) {
		name := content[loc[2]:loc[3]]
		if !tagged[byName[name]] {
			continue
		}
		spans = append(spans, Span{
			UserID: byName[name],
			Start:  loc[0],
			End:    loc[1],
		})
	}
	return spans
}
