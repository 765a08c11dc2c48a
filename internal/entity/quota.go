package entity

// QuotaRecord is the persisted daily usage counter for one paid external
// service. Date is the UTC day in YYYY-MM-DD form; a stale date means the
// counter is reset before the next read or write.
type QuotaRecord struct {
	Service string `json:"service"`
	Date    string `json:"date"`
	Used    int    `json:"used"`
	Limit   int    `json:"limit"`
}

// Remaining returns the unspent budget for the day, clamped at zero.
func (q QuotaRecord) Remaining() int {
	if q.Used >= q.Limit {
		return 0
	}
	return q.Limit - q.Used
}
