package projections

import (
	"context"

	"runclub/internal/adapters/storage/member"
	"runclub/internal/application/apperr"
	"runclub/internal/application/listutil"
	domainMember "runclub/internal/domain/member"
	"runclub/internal/domain/team"
)

// MemberSortColumns are the columns the member list may be sorted by.
var MemberSortColumns = []string{"name", "department", "team", "created_at"}

// GetMemberListQuery carries query parameters.
type GetMemberListQuery struct {
	Team    string
	Search  string
	Sort    string
	Dir     string
	Page    int
	PerPage int
}

// GetMemberListResult carries the query result.
type GetMemberListResult struct {
	Members []domainMember.Member
	Page    listutil.PageInfo
}

// GetMemberListDeps holds dependencies for GetMemberList.
type GetMemberListDeps struct {
	MemberStore MemberStore
}

// QueryGetMemberList retrieves one page of the roster.
// PRE: Valid query parameters
// POST: Members are filtered by team and search term, ordered by team then name by default
func QueryGetMemberList(ctx context.Context, query GetMemberListQuery, deps GetMemberListDeps) (GetMemberListResult, error) {
	filter := member.ListFilter{Search: query.Search, Sort: query.Sort, Dir: query.Dir}
	if query.Team != "" {
		t, err := team.Parse(query.Team)
		if err != nil {
			return GetMemberListResult{}, apperr.Invalid(err)
		}
		filter.Team = t
	}

	total, err := deps.MemberStore.Count(ctx, filter)
	if err != nil {
		return GetMemberListResult{}, apperr.Store("count members", err)
	}
	page := listutil.NewPageInfo(query.Page, query.PerPage, total)
	filter.Limit = page.PerPage
	filter.Offset = page.Offset()

	members, err := deps.MemberStore.List(ctx, filter)
	if err != nil {
		return GetMemberListResult{}, apperr.Store("list members", err)
	}
	return GetMemberListResult{Members: members, Page: page}, nil
}

// GetMemberQuery carries query parameters.
type GetMemberQuery struct {
	MemberID string
}

// GetMemberDeps holds dependencies for GetMember.
type GetMemberDeps struct {
	MemberStore MemberStore
}

// QueryGetMember fetches one member.
func QueryGetMember(ctx context.Context, query GetMemberQuery, deps GetMemberDeps) (domainMember.Member, error) {
	m, err := deps.MemberStore.GetByID(ctx, query.MemberID)
	if err != nil {
		return domainMember.Member{}, apperr.Store("get member", err)
	}
	return m, nil
}
