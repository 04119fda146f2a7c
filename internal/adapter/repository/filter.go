package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/voxlearn/vox/internal/repository"
	"github.com/voxlearn/vox/pkg/filterexpr"
)

// itemsSchema whitelists the filter fields and order keys accepted by ListItems.
var itemsSchema = filterexpr.ResourceSchema{
	Filter: map[string]filterexpr.FilterField{
		"keyword": {
			Kind: filterexpr.KindString,
			Ops:  map[filterexpr.Op]string{filterexpr.OpEQ: "Keyword"},
		},
		"front": {
			Kind: filterexpr.KindString,
			Ops:  map[filterexpr.Op]string{filterexpr.OpSW: "FrontPrefix"},
		},
		"tag": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ: "Tag",
				filterexpr.OpIN: "Tags",
			},
		},
		"created_at": {
			Kind: filterexpr.KindTimestamp,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpGTE: "CreatedAfter",
				filterexpr.OpLTE: "CreatedBefore",
			},
		},
	},
	Order: filterexpr.OrderSchema{
		DefaultPrimary:     "created_at",
		DefaultPrimaryDesc: true,
		FallbackKey:        "id",
		Keys: map[string]struct{}{
			"created_at": {},
			"updated_at": {},
			"front":      {},
			"id":         {},
		},
	},
}

type listItemParams struct {
	Keyword       *string
	FrontPrefix   *string
	Tag           *string
	Tags          []string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time

	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool
}

func bindListParams(query *repository.ListItemQuery) (listItemParams, error) {
	var params listItemParams
	msg := repository.FilterOrder{}
	if query != nil {
		msg = query.FilterOrder
	}
	if err := filterexpr.Bind(&msg, &params, itemsSchema); err != nil {
		return listItemParams{}, err
	}
	return params, nil
}

func (p listItemParams) whereClause() (string, []any) {
	var conds []string
	var args []any

	if p.Keyword != nil {
		pattern := likePattern(*p.Keyword)
		conds = append(conds, `(front LIKE ? ESCAPE '\' OR back LIKE ? ESCAPE '\' OR phonetic LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	if p.FrontPrefix != nil {
		conds = append(conds, `front LIKE ? ESCAPE '\'`)
		args = append(args, escapeLike(*p.FrontPrefix)+"%")
	}

	tags := p.Tags
	if p.Tag != nil {
		tags = append([]string{*p.Tag}, tags...)
	}
	if len(tags) > 0 {
		// Tags are stored as a JSON array of strings; match the quoted element.
		tagConds := make([]string, len(tags))
		for i, tag := range tags {
			tagConds[i] = `tags LIKE ? ESCAPE '\'`
			args = append(args, `%"`+escapeLike(tag)+`"%`)
		}
		conds = append(conds, "("+strings.Join(tagConds, " OR ")+")")
	}
	if p.CreatedAfter != nil {
		conds = append(conds, `created_at >= ?`)
		args = append(args, *p.CreatedAfter)
	}
	if p.CreatedBefore != nil {
		conds = append(conds, `created_at <= ?`)
		args = append(args, *p.CreatedBefore)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (p listItemParams) orderClause() string {
	return fmt.Sprintf(" ORDER BY %s, %s",
		orderTerm(p.PrimaryKey, p.PrimaryDesc),
		orderTerm(p.SecondaryKey, p.SecondaryDesc))
}

func orderTerm(key string, desc bool) string {
	if desc {
		return key + " DESC"
	}
	return key + " ASC"
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

func likePattern(s string) string {
	return "%" + escapeLike(s) + "%"
}
