package store

import (
	"strings"

	"github.com/goliatone/go-client-store/client"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// sortColumns maps the public sort fields to columns. Only these reach ORDER BY.
var sortColumns = map[client.SortField]string{
	client.SortByCreatedAt: "created_at",
	client.SortByUpdatedAt: "updated_at",
	client.SortByName:      "name",
	client.SortByEmail:     "email",
	client.SortByActive:    "active",
}

// likeEscape is the ESCAPE character used for free text search patterns.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// filterCriteria is the predicate shared by FindFiltered and CountFiltered.
// Both queries must be built from it so page and total never diverge.
func filterCriteria(f client.Filter) []repository.SelectCriteria {
	var criteria []repository.SelectCriteria

	if !f.IncludeDeleted {
		criteria = append(criteria, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("deleted_at IS NULL")
		})
	}

	if f.Active != nil {
		active := *f.Active
		criteria = append(criteria, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("active = ?", active)
		})
	}

	if term := f.NormalizedQuery(); term != "" {
		pattern := "%" + likeEscaper.Replace(term) + "%"
		criteria = append(criteria, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.
					Where("lower(name) LIKE ? ESCAPE '"+likeEscape+"'", pattern).
					WhereOr("lower(email) LIKE ? ESCAPE '"+likeEscape+"'", pattern)
			})
		})
	}

	return criteria
}

// pageCriteria orders and slices a query. The id tiebreaker keeps pages stable
// when the sort column has duplicates.
func pageCriteria(q client.ListQuery) []repository.SelectCriteria {
	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = sortColumns[client.SortByCreatedAt]
	}
	dir := "DESC"
	if q.SortDir == client.SortAsc {
		dir = "ASC"
	}

	return []repository.SelectCriteria{
		func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.OrderExpr("? "+dir, bun.Ident(column)).OrderExpr("? ASC", bun.Ident("id"))
		},
		func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Limit(q.Size).Offset(q.Offset())
		},
	}
}

func applyCriteria(q *bun.SelectQuery, criteria ...repository.SelectCriteria) *bun.SelectQuery {
	for _, c := range criteria {
		q = c(q)
	}
	return q
}
