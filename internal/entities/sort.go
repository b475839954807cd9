package entities

import (
	"errors"
	"fmt"
	"strings"
)

type SortOption string

const (
	SortRegisteredDesc SortOption = "registered_desc"
	SortRegisteredAsc  SortOption = "registered_asc"
	SortCompletedDesc  SortOption = "completed_desc"
	SortCompletedAsc   SortOption = "completed_asc"
	SortTitle          SortOption = "title"
	SortAuthor         SortOption = "author"
)

// DefaultSortOption is active until the user picks another one.
const DefaultSortOption = SortRegisteredDesc

var ErrInvalidSortOption = errors.New("invalid sort option")

// SortChoice pairs an option with its label for the sort panel.
type SortChoice struct {
	Value SortOption
	Label string
}

var sortChoices = []SortChoice{
	{Value: SortRegisteredDesc, Label: "Registered (newest first)"},
	{Value: SortRegisteredAsc, Label: "Registered (oldest first)"},
	{Value: SortCompletedDesc, Label: "Completed (newest first)"},
	{Value: SortCompletedAsc, Label: "Completed (oldest first)"},
	{Value: SortTitle, Label: "Title"},
	{Value: SortAuthor, Label: "Author"},
}

// SortOptions returns all six choices in display order.
func SortOptions() []SortChoice {
	out := make([]SortChoice, len(sortChoices))
	copy(out, sortChoices)
	return out
}

func ParseSortOption(s string) (SortOption, error) {
	opt := SortOption(s)
	if !opt.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortOption, s)
	}
	return opt, nil
}

func (s SortOption) Valid() bool {
	for _, c := range sortChoices {
		if c.Value == s {
			return true
		}
	}
	return false
}

func (s SortOption) Label() string {
	for _, c := range sortChoices {
		if c.Value == s {
			return c.Label
		}
	}
	return string(s)
}

// Direction is "desc", "asc" or "" for the alphabetical options.
func (s SortOption) Direction() string {
	switch {
	case strings.HasSuffix(string(s), "_desc"):
		return "desc"
	case strings.HasSuffix(string(s), "_asc"):
		return "asc"
	default:
		return ""
	}
}
