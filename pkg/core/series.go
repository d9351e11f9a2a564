package core

// Entry is one key/value pair of an aggregate result.
type Entry struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// Series is an ordered aggregate result: a categorical key (season, player,
// venue) mapped to a count or sum. The order is part of the result.
type Series []Entry

// Len returns the number of entries.
func (s Series) Len() int {
	return len(s)
}

// Keys returns the keys in order.
func (s Series) Keys() []string {
	keys := make([]string, len(s))
	for i, e := range s {
		keys[i] = e.Key
	}
	return keys
}

// Values returns the values in order.
func (s Series) Values() []int {
	values := make([]int, len(s))
	for i, e := range s {
		values[i] = e.Value
	}
	return values
}

// Get returns the value stored under key.
func (s Series) Get(key string) (int, bool) {
	for _, e := range s {
		if e.Key == key {
			return e.Value, true
		}
	}
	return 0, false
}

// Max returns the largest value, or 0 for an empty series.
func (s Series) Max() int {
	maxV := 0
	for i, e := range s {
		if i == 0 || e.Value > maxV {
			maxV = e.Value
		}
	}
	return maxV
}

// Total returns the sum of all values.
func (s Series) Total() int {
	total := 0
	for _, e := range s {
		total += e.Value
	}
	return total
}
