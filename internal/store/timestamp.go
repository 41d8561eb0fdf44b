package store

import (
	"fmt"
	"time"
)

// timestampFormats are the layouts SQLite DATETIME values come back in:
// the driver's own write format and CURRENT_TIMESTAMP.
var timestampFormats = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// timestamp scans a DATETIME column into a time.Time. The driver only
// converts values when it knows the declared column type, which it does not
// for every RETURNING clause, so text values are parsed here.
type timestamp struct {
	t     *time.Time
	valid bool
}

func (ts *timestamp) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		ts.valid = false
		return nil
	case time.Time:
		*ts.t = x.UTC()
	case string:
		return ts.parse(x)
	case []byte:
		return ts.parse(string(x))
	default:
		return fmt.Errorf("unsupported timestamp type %T", v)
	}
	ts.valid = true
	return nil
}

func (ts *timestamp) parse(s string) error {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			*ts.t = t.UTC()
			ts.valid = true
			return nil
		}
	}
	return fmt.Errorf("parsing timestamp %q", s)
}

func scanTime(t *time.Time) *timestamp {
	return &timestamp{t: t}
}
