package flights

import "time"

type SearchQuery struct {
	Source      string
	Destination string
	Date        time.Time
}
