package tutorial

import (
	"cmp"
	"errors"
	"slices"
	"strings"
)

const SortNone = "none"

var ErrUnknownSortField = errors.New("unknown sort field")

var clientFields = map[string]func(a, b Client) int{
	"name":    func(a, b Client) int { return cmp.Compare(a.Name, b.Name) },
	"age":     func(a, b Client) int { return cmp.Compare(a.Age, b.Age) },
	"email":   func(a, b Client) int { return cmp.Compare(a.Email, b.Email) },
	"city":    func(a, b Client) int { return cmp.Compare(a.City, b.City) },
	"country": func(a, b Client) int { return cmp.Compare(a.Country, b.Country) },
	"phone":   func(a, b Client) int { return cmp.Compare(a.Phone, b.Phone) },
}

// FilterAndSort keeps the clients whose name contains filter, ignoring case,
// then sorts them by the sortBy field. An empty filter keeps everything and
// an empty or "none" sortBy keeps the input order. The input is not modified.
func FilterAndSort(clients []Client, filter, sortBy string) ([]Client, error) {
	compare, sorted := clientFields[sortBy]
	if !sorted && sortBy != "" && sortBy != SortNone {
		return nil, ErrUnknownSortField
	}

	needle := strings.ToLower(filter)
	result := make([]Client, 0, len(clients))
	for _, c := range clients {
		if needle == "" || strings.Contains(strings.ToLower(c.Name), needle) {
			result = append(result, c)
		}
	}

	if sorted {
		slices.SortStableFunc(result, compare)
	}
	return result, nil
}
