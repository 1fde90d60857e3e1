package handlers

import (
	"time"

	"leadboard/internal/analytics"
)

const dateLayout = "2006-01-02"

// periodQuery selects the reporting period. Unknown filter names fall back
// to the default period rather than failing the request.
type periodQuery struct {
	Filter string `form:"filter"`
	Start  string `form:"start" binding:"omitempty,datetime=2006-01-02"`
	End    string `form:"end" binding:"omitempty,datetime=2006-01-02"`
}

func (q periodQuery) bounds(loc *time.Location) (start, end *time.Time) {
	return parseDay(q.Start, loc), parseDay(q.End, loc)
}

func (q periodQuery) dashboard(loc *time.Location) analytics.DashboardQuery {
	start, end := q.bounds(loc)
	return analytics.DashboardQuery{
		Filter: analytics.ParseDateFilter(q.Filter),
		Start:  start,
		End:    end,
	}
}

type tableQuery struct {
	periodQuery
	Search   string `form:"q"`
	Status   string `form:"status"`
	District string `form:"district"`
}

// leadFilter leaves the date unrestricted when no filter was requested.
func (q tableQuery) leadFilter(loc *time.Location) analytics.LeadFilter {
	f := analytics.LeadFilter{
		Search:   q.Search,
		Status:   q.Status,
		District: q.District,
	}
	if q.Filter != "" {
		f.Date = analytics.ParseDateFilter(q.Filter)
		f.Start, f.End = q.bounds(loc)
	}
	return f
}

type searchQuery struct {
	tableQuery
	Limit  int `form:"limit,default=50" binding:"min=1,max=1000"`
	Offset int `form:"offset" binding:"min=0"`
}

type proxyQuery struct {
	Limit  int    `form:"limit,default=1000" binding:"min=1,max=10000"`
	Offset int    `form:"offset" binding:"min=0"`
	Sort   string `form:"sort,default=-CreatedAt"`
	Where  string `form:"where"`
	Fields string `form:"fields"`
}

type trendsQuery struct {
	Days  int `form:"days,default=30" binding:"min=1,max=366"`
	Weeks int `form:"weeks,default=8" binding:"min=1,max=104"`
}

type distributionQuery struct {
	Field string `form:"field" binding:"required"`
}

func parseDay(value string, loc *time.Location) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return nil
	}
	return &t
}
