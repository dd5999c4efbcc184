// Package model defines the domain types shared by the evaluator and its presenters.
package model

import (
	"sort"
	"strings"
)

// Category names one expense bucket.
type Category string

// The fixed expense buckets.
const (
	Food           Category = "Food"
	Rent           Category = "Rent"
	Entertainment  Category = "Entertainment"
	Transportation Category = "Transportation"
	Shopping       Category = "Shopping"
	Savings        Category = "Savings"
	Other          Category = "Other"
)

// CategorySet is an ordered list of unique categories. Order only matters for display.
type CategorySet []Category

// DefaultCategories is the category set every presenter uses.
var DefaultCategories = CategorySet{Food, Rent, Entertainment, Transportation, Shopping, Savings, Other}

// Contains reports whether c is a member of the set.
func (s CategorySet) Contains(c Category) bool {
	for _, m := range s {
		if m == c {
			return true
		}
	}
	return false
}

// Lookup finds a member by case-insensitive name.
// e.g. "food" -> Food, true
func (s CategorySet) Lookup(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for _, m := range s {
		if strings.EqualFold(string(m), name) {
			return m, true
		}
	}
	return "", false
}

// Names returns the category names as plain strings.
func (s CategorySet) Names() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = string(c)
	}
	return out
}

// Duplicates returns any names that appear more than once, sorted.
func (s CategorySet) Duplicates() []Category {
	seen := make(map[Category]int, len(s))
	for _, c := range s {
		seen[c]++
	}
	var dups []Category
	for c, n := range seen {
		if n > 1 {
			dups = append(dups, c)
		}
	}
	sort.Slice(dups, func(i, j int) bool { return dups[i] < dups[j] })
	return dups
}

// ExpenseMap maps a category to the amount spent on it. Missing entries read as zero.
type ExpenseMap map[Category]float64

// Get returns the amount for c, or 0 when unset.
func (m ExpenseMap) Get(c Category) float64 {
	return m[c]
}

// Request is the input contract: a budget ceiling and per-category spend.
type Request struct {
	Budget   float64    `json:"budget" yaml:"budget" toml:"budget"`
	Expenses ExpenseMap `json:"expenses" yaml:"expenses" toml:"expenses"`
}
