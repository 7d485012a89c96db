package store

import (
	"context"
	"fmt"
)

var metricColumns = map[Metric]string{
	MetricBalance:    "balance",
	MetricExperience: "experience",
	MetricDeaths:     "death_count",
	MetricRobbed:     "robbed_count",
}

// TopN orders by metric descending with user id as the tie-break.
func (s *Postgres) TopN(ctx context.Context, metric Metric, n int) ([]Standing, error) {
	col, ok := metricColumns[metric]
	if !ok {
		return nil, fmt.Errorf("unknown metric %q", metric)
	}
	if n <= 0 {
		return []Standing{}, nil
	}
	ctx, done := s.op(ctx, "store.top_n")
	defer done()
	rows, err := s.Pool.Query(ctx,
		`SELECT user_id, `+col+`::BIGINT FROM accounts ORDER BY `+col+` DESC, user_id ASC LIMIT $1`, n)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	out := make([]Standing, 0, n)
	for rows.Next() {
		st := Standing{Rank: len(out) + 1}
		if err := rows.Scan(&st.UserID, &st.Value); err != nil {
			return nil, classify(err)
		}
		out = append(out, st)
	}
	return out, classify(rows.Err())
}
