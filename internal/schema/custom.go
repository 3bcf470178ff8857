package schema

// Date shapes accepted by the Solvex integration service. No timezone suffix,
// the upstream rejects offsets.
const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02T15:04:05"
)

type QuotaType int

const (
	QuotaTypeOnRequest QuotaType = 0
	QuotaTypeOnQuota   QuotaType = 1
	QuotaTypeStopSales QuotaType = 2
)
