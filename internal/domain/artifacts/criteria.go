package artifacts

import (
	"sort"
	"strings"

	"gorm.io/gorm"
)

type Scope = func(*gorm.DB) *gorm.DB

var criteria = map[string]func(string) Scope{
	"id":          HasID,
	"name":        ContainsName,
	"description": ContainsDescription,
	"ownerName":   HasOwnerName,
}

func HasID(id string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("artifacts.id = ?", id)
	}
}

func ContainsName(name string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(artifacts.name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
}

func ContainsDescription(description string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(artifacts.description) LIKE ?", "%"+strings.ToLower(description)+"%")
	}
}

func HasOwnerName(ownerName string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN wizards ON wizards.id = artifacts.owner_id").
			Where("LOWER(wizards.name) = ?", strings.ToLower(ownerName))
	}
}

// Criteria turns a search map into scopes that are AND-ed together.
// Unknown keys and empty values are skipped, so an empty result means "all".
func Criteria(search map[string]string) []Scope {
	keys := make([]string, 0, len(search))
	for k := range search {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	scopes := make([]Scope, 0, len(keys))
	for _, k := range keys {
		v := search[k]
		build, ok := criteria[k]
		if !ok || v == "" {
			continue
		}
		scopes = append(scopes, build(v))
	}
	return scopes
}
