package paging

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultSize = 20
	MaxSize     = 100
	// MaxPage keeps Page*Size inside an int32 offset.
	MaxPage     = math.MaxInt32 / MaxSize
)

type Order struct {
	Field string
	Desc  bool
}

// Pageable is a 0-based page request.
type Pageable struct {
	Page int
	Size int
	Sort []Order
}

func Unpaged() Pageable {
	return Pageable{Page: 0, Size: DefaultSize}
}

func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// Parse reads page, size and sort ("field" or "field,asc|desc") query values.
// Empty strings fall back to defaults.
func Parse(page, size string, sorts []string) (Pageable, error) {
	p := Unpaged()

	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 0 {
			return p, fmt.Errorf("page must be a non-negative integer")
		}
		if n > MaxPage {
			return p, fmt.Errorf("page must not exceed %d", MaxPage)
		}
		p.Page = n
	}
	if size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n < 1 {
			return p, fmt.Errorf("size must be a positive integer")
		}
		if n > MaxSize {
			n = MaxSize
		}
		p.Size = n
	}

	for _, s := range sorts {
		parts := strings.Split(s, ",")
		field := strings.TrimSpace(parts[0])
		if field == "" {
			continue
		}
		o := Order{Field: field}
		if len(parts) > 1 {
			switch strings.ToLower(strings.TrimSpace(parts[1])) {
			case "asc", "":
			case "desc":
				o.Desc = true
			default:
				return p, fmt.Errorf("invalid sort direction %q", parts[1])
			}
		}
		p.Sort = append(p.Sort, o)
	}
	return p, nil
}

// Scope applies ordering, offset and limit. columns whitelists the sortable
// fields; fallback is used when no order is requested.
func (p Pageable) Scope(columns map[string]string, fallback string) (func(*gorm.DB) *gorm.DB, error) {
	orders := make([]string, 0, len(p.Sort)+1)
	for _, o := range p.Sort {
		col, ok := columns[o.Field]
		if !ok {
			return nil, fmt.Errorf("cannot sort by %q", o.Field)
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		orders = append(orders, col+" "+dir)
	}
	if len(orders) == 0 && fallback != "" {
		orders = append(orders, fallback)
	}

	return func(db *gorm.DB) *gorm.DB {
		for _, o := range orders {
			db = db.Order(o)
		}
		return db.Offset(p.Offset()).Limit(p.Size)
	}, nil
}

type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
}

func NewPage[T any](content []T, p Pageable, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if p.Size > 0 {
		pages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	return Page[T]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       pages,
		Number:           p.Page,
		Size:             p.Size,
		NumberOfElements: len(content),
		First:            p.Page == 0,
		Last:             p.Page+1 >= pages,
	}
}

func Map[T, U any](in Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(in.Content))
	for _, v := range in.Content {
		out = append(out, fn(v))
	}
	return Page[U]{
		Content:          out,
		TotalElements:    in.TotalElements,
		TotalPages:       in.TotalPages,
		Number:           in.Number,
		Size:             in.Size,
		NumberOfElements: in.NumberOfElements,
		First:            in.First,
		Last:             in.Last,
	}
}
