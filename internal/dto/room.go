package dto

import (
	"strings"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
)

// RoomListQuery binds the catalog query string.
// type may repeat or hold a comma separated list.
type RoomListQuery struct {
	Types    []string `form:"type"`
	MinPrice float64  `form:"min_price"`
	MaxPrice float64  `form:"max_price"`
	Sort     string   `form:"sort"`
	Page     int      `form:"page"`
	PageSize int      `form:"page_size"`
}

// ToDomain converts the bound query into a domain.RoomQuery
func (q *RoomListQuery) ToDomain() domain.RoomQuery {
	var types []domain.RoomType
	for _, raw := range q.Types {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, domain.RoomType(t))
			}
		}
	}
	return domain.RoomQuery{
		Types:    types,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Sort:     domain.SortOrder(strings.ToLower(q.Sort)),
		Page:     q.Page,
		PageSize: q.PageSize,
	}
}

// RoomPage is one page of the filtered catalog
type RoomPage struct {
	Rooms    []*domain.Room
	Page     int
	PageSize int
	Total    int
}
