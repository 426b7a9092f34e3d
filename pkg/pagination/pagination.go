package pagination

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	// DefaultPage is used when a page is not provided.
	DefaultPage = 1
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page   int
	Limit  int
	Search string
}

// Meta is the pagination block returned with every list.
type Meta struct {
	TotalItems  int64 `json:"totalItems"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Limit       int   `json:"limit"`
}

// Page is one slice of a list result.
type Page[T any] struct {
	Data []T
	Meta Meta
}

// Normalize applies the defaults and caps.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	p.Search = strings.TrimSpace(p.Search)
	return p
}

// Offset is (page-1)*limit on the normalized params.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// SearchID returns the search term as an id when it parses as a
// non-negative integer.
func (p Params) SearchID() (uint64, bool) {
	term := strings.TrimSpace(p.Search)
	if term == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(term, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// NewMeta computes the meta block for total matching rows.
func NewMeta(total int64, p Params) Meta {
	n := p.Normalize()
	pages := 0
	if total > 0 {
		pages = int((total + int64(n.Limit) - 1) / int64(n.Limit))
	}
	return Meta{
		TotalItems:  total,
		CurrentPage: n.Page,
		TotalPages:  pages,
		Limit:       n.Limit,
	}
}

// Paginate applies limit/offset to a query.
func Paginate(p Params) func(*gorm.DB) *gorm.DB {
	n := p.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(n.Offset()).Limit(n.Limit)
	}
}

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Search filters by a case-insensitive substring over textColumns, or an
// exact match on idColumn when the term is an integer. Columns are trusted
// identifiers supplied by repositories.
func Search(p Params, textColumns []string, idColumn string) func(*gorm.DB) *gorm.DB {
	term := strings.TrimSpace(p.Search)
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}

		clauses := make([]string, 0, len(textColumns)+1)
		args := make([]any, 0, len(textColumns)+1)
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		for _, col := range textColumns {
			clauses = append(clauses, "LOWER(CAST("+col+" AS TEXT)) LIKE ? ESCAPE '\\'")
			args = append(args, pattern)
		}
		if id, ok := p.SearchID(); ok && idColumn != "" {
			clauses = append(clauses, idColumn+" = ?")
			args = append(args, id)
		}
		if len(clauses) == 0 {
			return db
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}
