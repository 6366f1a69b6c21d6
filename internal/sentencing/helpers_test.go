package sentencing

import "strconv"

func itoa(i int) string {
	return strconv.Itoa(i)
}

func ptr[T any](v T) *T {
	return &v
}
